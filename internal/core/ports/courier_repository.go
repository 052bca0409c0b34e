// Package ports defines the contracts between the dispatch core and its
// adapters: repositories and the unit of work that scopes them, the
// shutdown snapshot store and the status publisher.
package ports

import (
	"context"

	"dispatch/internal/core/domain/model/courier"
)

// CourierRepository stores courier aggregates. Iteration follows insertion
// order so the dispatcher's "first courier wins ties" rule is deterministic.
type CourierRepository interface {
	// Add stores a new courier. Returns errs.ErrObjectAlreadyExists if the ID is taken.
	Add(ctx context.Context, c *courier.Courier) error

	// Update stores changes to an existing courier.
	Update(ctx context.Context, c *courier.Courier) error

	// Get returns the courier with the given ID or errs.ErrObjectNotFound.
	Get(ctx context.Context, id int64) (*courier.Courier, error)

	// GetAll returns every courier ever registered, in insertion order.
	GetAll(ctx context.Context) ([]*courier.Courier, error)

	// GetAllAvailable returns couriers in status Available, in insertion order.
	GetAllAvailable(ctx context.Context) ([]*courier.Courier, error)
}
