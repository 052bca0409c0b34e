// Package jobs provides scheduled background tasks for the dispatch service.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
//
// # Available Jobs
//
// 1. PeriodicSweepJob - assigns pending orders, then broadcasts system_status and periodic_update
// 2. StaleCourierJob - marks couriers without a recent heartbeat offline (mark-offline retention only)
//
// # Usage
//
//	jobManager := jobs.NewJobManager(coordinator, jobs.Config{SweepInterval: 10 * time.Second}, logger)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Scheduling
//
// Jobs run on "@every <interval>" schedules and are wrapped in
// cron.SkipIfStillRunning, so a slow tick delays the next one instead of
// overlapping it.
package jobs
