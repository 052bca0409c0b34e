// Package queries contains read operations for retrieving dispatch state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Queries copy the engine state into plain read models while holding the
// engine's exclusive section, so callers can encode and send them after it
// is released.
package queries

import (
	"context"

	"dispatch/internal/core/domain/model/traffic"
	"dispatch/internal/core/ports"
)

type (
	// ReadUoW is a unit of work that is always rolled back.
	ReadUoW interface {
		Begin(ctx context.Context) error
		Rollback(ctx context.Context) error
		CourierRepository() ports.CourierRepository
		OrderRepository() ports.OrderRepository
		AssignmentLog() ports.AssignmentLog
		Traffic() *traffic.State
	}

	ReadUoWFactory interface {
		Create() ReadUoW
	}
)
