package ports

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/traffic"
	"dispatch/internal/core/domain/services"
)

// DispatchSnapshot is the complete engine state at one instant. It is
// written once on shutdown.
type DispatchSnapshot struct {
	Couriers    []*courier.Courier
	Orders      []*order.Order
	Assignments []assignment.Assignment
	Statistics  services.Statistics
	Traffic     traffic.Condition
	TakenAt     time.Time
}

// SnapshotStore persists a DispatchSnapshot outside the process.
type SnapshotStore interface {
	Save(ctx context.Context, snapshot DispatchSnapshot) error
}
