package ports

import (
	"context"

	"dispatch/internal/core/domain/model/traffic"
)

// UnitOfWorkFactory creates a UnitOfWork per command or query.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is the dispatch engine's exclusive section.
//
// Begin acquires the engine lock; Commit publishes the tracked changes and
// releases it; Rollback discards them and releases it. Repositories obtained
// from the unit of work are only usable between Begin and Commit/Rollback.
// No network I/O may happen while a unit of work is open.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	CourierRepository() CourierRepository
	OrderRepository() OrderRepository
	AssignmentLog() AssignmentLog

	// Traffic returns the process-wide traffic state read by every estimate.
	Traffic() *traffic.State
}
