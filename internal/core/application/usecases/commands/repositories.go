// Package commands contains business operations that modify dispatch state.
// Implements the Command pattern for write operations in the CQRS architecture.
// Every handler opens one unit of work, which is the engine's exclusive
// section: validation, mutation, the optional assignment sweep and the commit
// all happen while it is held.
package commands

import (
	"context"

	"dispatch/internal/core/domain/model/traffic"
	"dispatch/internal/core/ports"
)

// Unit of Work interfaces scope repositories to one exclusive section.
type (
	// TxManager handles the unit of work lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to the order repository within a unit of work.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// CourierRepoFactory provides access to the courier repository within a unit of work.
	CourierRepoFactory interface {
		CourierRepository() ports.CourierRepository
	}

	// AssignmentLogFactory provides access to the assignment log within a unit of work.
	AssignmentLogFactory interface {
		AssignmentLog() ports.AssignmentLog
	}

	// TrafficProvider exposes the process-wide traffic state.
	TrafficProvider interface {
		Traffic() *traffic.State
	}

	// CourierUoW is used by commands that only touch couriers.
	CourierUoW interface {
		TxManager
		CourierRepoFactory
	}

	// CourierUoWFactory creates courier-only units of work.
	CourierUoWFactory interface {
		Create() CourierUoW
	}

	// UoW spans couriers, orders, the assignment log and traffic. Every
	// command that may run an assignment sweep needs it.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   orderRepo := uow.OrderRepository()
	//   courierRepo := uow.CourierRepository()
	//   // ... perform operations
	//
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		CourierRepoFactory
		OrderRepoFactory
		AssignmentLogFactory
		TrafficProvider
	}

	// UoWFactory creates units of work for cross-aggregate operations.
	UoWFactory interface {
		Create() UoW
	}
)
