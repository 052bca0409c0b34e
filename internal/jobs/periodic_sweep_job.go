package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Ticker runs one round of periodic dispatch work.
type Ticker interface {
	Tick(ctx context.Context) error
}

// PeriodicSweepJob assigns pending orders and broadcasts the system status
// and statistics on a fixed interval.
type PeriodicSweepJob struct {
	ticker   Ticker
	interval time.Duration
	cron     *cron.Cron
	logger   *slog.Logger
}

func NewPeriodicSweepJob(ticker Ticker, interval time.Duration, logger *slog.Logger) *PeriodicSweepJob {
	logger = logger.With("component", "periodic_sweep_job")
	return &PeriodicSweepJob{
		ticker:   ticker,
		interval: interval,
		cron:     newCron(logger),
		logger:   logger,
	}
}

// Start schedules the job every interval.
func (j *PeriodicSweepJob) Start() error {
	if err := schedule(j.cron, j.interval, j.run); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Periodic sweep job started", "interval", j.interval.String())
	return nil
}

// Stop stops scheduling and waits for a running tick to finish.
func (j *PeriodicSweepJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Periodic sweep job stopped")
}

func (j *PeriodicSweepJob) run() {
	ctx := context.Background()
	if err := j.ticker.Tick(ctx); err != nil {
		j.logger.ErrorContext(ctx, "Periodic sweep failed", "error", err)
	}
}

func newCron(logger *slog.Logger) *cron.Cron {
	return cron.New(cron.WithChain(cron.SkipIfStillRunning(cronLogger{logger})))
}

func schedule(c *cron.Cron, interval time.Duration, fn func()) error {
	if interval <= 0 {
		return fmt.Errorf("interval must be positive, got %s", interval)
	}
	_, err := c.AddFunc("@every "+interval.String(), fn)
	return err
}

// cronLogger adapts slog to cron.Logger for the job wrappers.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append(keysAndValues, "error", err)...)
}
