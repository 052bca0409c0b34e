package queries

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrExportSnapshotQueryIsNotConstructed = errors.New(
	"ExportSnapshotQuery must be created via NewExportSnapshotQuery constructor",
)

// ExportSnapshotQuery collects the complete state for the shutdown dump:
// every courier regardless of staleness and the full assignment log.
type ExportSnapshotQuery struct {
	takenAt time.Time
	guard   guard.ConstructorGuard
}

func NewExportSnapshotQuery(takenAt time.Time) (ExportSnapshotQuery, error) {
	if takenAt.IsZero() {
		return ExportSnapshotQuery{}, errs.NewValueIsRequiredError("takenAt")
	}
	return ExportSnapshotQuery{takenAt: takenAt, guard: guard.NewConstructorGuard()}, nil
}

func (q ExportSnapshotQuery) Validate() error {
	return q.guard.Validate(ErrExportSnapshotQueryIsNotConstructed)
}

type ExportSnapshotQueryHandler struct {
	uowFactory ReadUoWFactory
}

func NewExportSnapshotQueryHandler(uowFactory ReadUoWFactory) ExportSnapshotQueryHandler {
	return ExportSnapshotQueryHandler{uowFactory: uowFactory}
}

// Handle returns aggregates rehydrated inside the section. They are private
// copies, so the snapshot store may read them after the section is released.
func (h ExportSnapshotQueryHandler) Handle(
	ctx context.Context,
	query ExportSnapshotQuery,
) (ports.DispatchSnapshot, error) {
	if err := query.Validate(); err != nil {
		return ports.DispatchSnapshot{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return ports.DispatchSnapshot{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	couriers, err := uow.CourierRepository().GetAll(ctx)
	if err != nil {
		return ports.DispatchSnapshot{}, err
	}
	orders, err := uow.OrderRepository().GetAll(ctx)
	if err != nil {
		return ports.DispatchSnapshot{}, err
	}
	records, err := uow.AssignmentLog().GetAll(ctx)
	if err != nil {
		return ports.DispatchSnapshot{}, err
	}

	return ports.DispatchSnapshot{
		Couriers:    couriers,
		Orders:      orders,
		Assignments: records,
		Statistics:  services.CalculateStatistics(orders, couriers),
		Traffic:     uow.Traffic().Current(),
		TakenAt:     query.takenAt,
	}, nil
}
