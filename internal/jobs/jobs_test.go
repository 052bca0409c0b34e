package jobs_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"dispatch/internal/jobs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingCoordinator struct {
	ticks    atomic.Int32
	expiries atomic.Int32
	tickErr  error
}

func (c *countingCoordinator) Tick(context.Context) error {
	c.ticks.Add(1)
	return c.tickErr
}

func (c *countingCoordinator) ExpireStaleCouriers(context.Context) ([]int64, error) {
	c.expiries.Add(1)
	return nil, nil
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestJobManager_RunsJobs(t *testing.T) {
	// Given
	coord := &countingCoordinator{}
	jm := jobs.NewJobManager(coord, jobs.Config{
		SweepInterval:      time.Second,
		StaleCheckInterval: time.Second,
	}, discard())

	// When
	require.NoError(t, jm.StartAll())
	defer jm.StopAll()

	// Then
	assert.Eventually(t, func() bool {
		return coord.ticks.Load() > 0 && coord.expiries.Load() > 0
	}, 3*time.Second, 50*time.Millisecond)
}

func TestJobManager_StaleJobDisabled(t *testing.T) {
	coord := &countingCoordinator{}
	jm := jobs.NewJobManager(coord, jobs.Config{SweepInterval: time.Second}, discard())

	require.NoError(t, jm.StartAll())
	assert.Eventually(t, func() bool { return coord.ticks.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
	jm.StopAll()

	assert.Zero(t, coord.expiries.Load())
}

func TestJobManager_InvalidInterval(t *testing.T) {
	jm := jobs.NewJobManager(&countingCoordinator{}, jobs.Config{}, discard())

	require.Error(t, jm.StartAll())
}

func TestPeriodicSweepJob_KeepsRunningAfterError(t *testing.T) {
	coord := &countingCoordinator{tickErr: errors.New("sweep failed")}
	job := jobs.NewPeriodicSweepJob(coord, time.Second, discard())

	require.NoError(t, job.Start())
	defer job.Stop()

	assert.Eventually(t, func() bool { return coord.ticks.Load() >= 2 }, 4*time.Second, 50*time.Millisecond)
}
