package ports

import (
	"context"

	"dispatch/internal/core/domain/model/order"
)

// OrderRepository stores order aggregates in insertion order.
type OrderRepository interface {
	// Add stores a new order. Returns errs.ErrObjectAlreadyExists if the ID is taken.
	Add(ctx context.Context, o *order.Order) error

	// Update stores changes to an existing order.
	Update(ctx context.Context, o *order.Order) error

	// Get returns the order with the given ID or errs.ErrObjectNotFound.
	Get(ctx context.Context, id int64) (*order.Order, error)

	// GetAll returns every order, in insertion order.
	GetAll(ctx context.Context) ([]*order.Order, error)

	// GetAllPending returns orders in status Pending, in insertion order.
	GetAllPending(ctx context.Context) ([]*order.Order, error)
}
