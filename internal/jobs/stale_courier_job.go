package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// StaleExpirer marks couriers with an outdated heartbeat offline.
type StaleExpirer interface {
	ExpireStaleCouriers(ctx context.Context) ([]int64, error)
}

// StaleCourierJob takes silent couriers out of the assignment pool. It is
// only scheduled under the mark-offline retention policy.
type StaleCourierJob struct {
	expirer  StaleExpirer
	interval time.Duration
	cron     *cron.Cron
	logger   *slog.Logger
}

func NewStaleCourierJob(expirer StaleExpirer, interval time.Duration, logger *slog.Logger) *StaleCourierJob {
	logger = logger.With("component", "stale_courier_job")
	return &StaleCourierJob{
		expirer:  expirer,
		interval: interval,
		cron:     newCron(logger),
		logger:   logger,
	}
}

func (j *StaleCourierJob) Start() error {
	if err := schedule(j.cron, j.interval, j.run); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Stale courier job started", "interval", j.interval.String())
	return nil
}

func (j *StaleCourierJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Stale courier job stopped")
}

func (j *StaleCourierJob) run() {
	ctx := context.Background()
	if _, err := j.expirer.ExpireStaleCouriers(ctx); err != nil {
		j.logger.ErrorContext(ctx, "Stale courier expiry failed", "error", err)
	}
}
