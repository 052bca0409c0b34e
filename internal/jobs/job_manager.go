package jobs

import (
	"fmt"
	"log/slog"
	"time"
)

// Coordinator is what the scheduled jobs drive.
type Coordinator interface {
	Ticker
	StaleExpirer
}

type Config struct {
	SweepInterval time.Duration
	// StaleCheckInterval enables StaleCourierJob when positive.
	StaleCheckInterval time.Duration
}

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	sweepJob *PeriodicSweepJob
	staleJob *StaleCourierJob
}

func NewJobManager(coord Coordinator, cfg Config, logger *slog.Logger) *JobManager {
	jm := &JobManager{
		sweepJob: NewPeriodicSweepJob(coord, cfg.SweepInterval, logger),
	}
	if cfg.StaleCheckInterval > 0 {
		jm.staleJob = NewStaleCourierJob(coord, cfg.StaleCheckInterval, logger)
	}
	return jm
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.sweepJob.Start(); err != nil {
		return fmt.Errorf("failed to start periodic sweep job: %w", err)
	}

	if jm.staleJob != nil {
		if err := jm.staleJob.Start(); err != nil {
			// Stop already started jobs if this one fails
			jm.sweepJob.Stop()
			return fmt.Errorf("failed to start stale courier job: %w", err)
		}
	}

	return nil
}

// StopAll stops all scheduled jobs and waits for running ones to return.
func (jm *JobManager) StopAll() {
	if jm.staleJob != nil {
		jm.staleJob.Stop()
	}
	jm.sweepJob.Stop()
}
