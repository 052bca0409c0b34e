package queries

import (
	"context"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
)

type GetSystemStatusQueryHandler struct {
	uowFactory ReadUoWFactory
}

func NewGetSystemStatusQueryHandler(uowFactory ReadUoWFactory) GetSystemStatusQueryHandler {
	return GetSystemStatusQueryHandler{uowFactory: uowFactory}
}

// Handle copies the current state into a SystemStatus. Statistics count
// only the active couriers for utilisation.
func (h GetSystemStatusQueryHandler) Handle(ctx context.Context, query GetSystemStatusQuery) (SystemStatus, error) {
	if err := query.Validate(); err != nil {
		return SystemStatus{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return SystemStatus{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	couriers, err := uow.CourierRepository().GetAll(ctx)
	if err != nil {
		return SystemStatus{}, err
	}
	orders, err := uow.OrderRepository().GetAll(ctx)
	if err != nil {
		return SystemStatus{}, err
	}
	records, err := uow.AssignmentLog().GetAll(ctx)
	if err != nil {
		return SystemStatus{}, err
	}

	active := activeCouriers(couriers, query)
	activeIDs := make(map[int64]struct{}, len(active))
	status := SystemStatus{
		Couriers:    make([]CourierView, 0, len(active)),
		Orders:      make([]OrderView, 0, len(orders)),
		Assignments: make([]AssignmentView, 0),
		Statistics:  NewStatisticsView(services.CalculateStatistics(orders, active)),
		Traffic:     uow.Traffic().Current().String(),
		Timestamp:   query.now,
	}

	for _, c := range active {
		activeIDs[c.ID()] = struct{}{}
		status.Couriers = append(status.Couriers, NewCourierView(c))
	}

	holder := make(map[int64]int64, len(orders))
	for _, o := range orders {
		status.Orders = append(status.Orders, NewOrderView(o))
		if id := o.CourierID(); id != nil && o.Status() == order.Assigned {
			holder[o.ID()] = *id
		}
	}

	// A reverted and reassigned order leaves older records behind; only the
	// latest one naming the current holder is still open.
	open := make(map[int64]int, len(holder))
	for i, a := range records {
		if courierID, ok := holder[a.OrderID()]; ok && courierID == a.CourierID() {
			open[a.OrderID()] = i
		}
	}
	for i, a := range records {
		if _, ok := activeIDs[a.CourierID()]; !ok {
			continue
		}
		if last, ok := open[a.OrderID()]; !ok || last != i {
			continue
		}
		status.Assignments = append(status.Assignments, NewAssignmentView(a))
	}

	return status, nil
}

func activeCouriers(couriers []*courier.Courier, query GetSystemStatusQuery) []*courier.Courier {
	active := make([]*courier.Courier, 0, len(couriers))
	for _, c := range couriers {
		if c.IsActive(query.now, query.staleAfter) {
			active = append(active, c)
		}
	}
	return active
}
