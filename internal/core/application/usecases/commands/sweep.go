package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
)

// assignPending runs one greedy sweep inside an open unit of work. It saves
// every order and courier the sweep touched and appends the assignment
// records to the log. The caller commits.
func assignPending(
	ctx context.Context,
	uow UoW,
	dispatcher services.OrderDispatcher,
	at time.Time,
) ([]assignment.Assignment, error) {
	orderRepo := uow.OrderRepository()
	courierRepo := uow.CourierRepository()

	pending, err := orderRepo.GetAllPending(ctx)
	if err != nil {
		return nil, err
	}
	if len(pending) == 0 {
		return nil, nil
	}

	available, err := courierRepo.GetAllAvailable(ctx)
	if err != nil {
		return nil, err
	}
	if len(available) == 0 {
		return nil, nil
	}

	made, err := dispatcher.AssignPending(pending, available, uow.Traffic().Factor(), at)
	if err != nil {
		return nil, err
	}

	ordersByID := make(map[int64]*order.Order, len(pending))
	for _, o := range pending {
		ordersByID[o.ID()] = o
	}

	touched := make(map[int64]struct{})
	for _, a := range made {
		if err := orderRepo.Update(ctx, ordersByID[a.OrderID()]); err != nil {
			return nil, err
		}
		if err := uow.AssignmentLog().Append(ctx, a); err != nil {
			return nil, err
		}
		touched[a.CourierID()] = struct{}{}
	}
	for _, c := range available {
		if _, ok := touched[c.ID()]; !ok {
			continue
		}
		if err := courierRepo.Update(ctx, c); err != nil {
			return nil, err
		}
	}

	return made, nil
}
