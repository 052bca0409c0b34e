package commands

import (
	"context"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/services"
)

// CancelOrderCommandHandler cancels an order, releases it from its courier
// and sweeps so the freed capacity can be reused immediately.
//
// Errors:
//   - errs.ErrObjectNotFound for an unknown order
//   - order.ErrInvalidStatusTransition for delivered or cancelled orders
type CancelOrderCommandHandler struct {
	uowFactory UoWFactory
	dispatcher services.OrderDispatcher
}

func NewCancelOrderCommandHandler(uowFactory UoWFactory) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
		dispatcher: services.NewOrderDispatcher(),
	}
}

func (h CancelOrderCommandHandler) Handle(
	ctx context.Context,
	command CancelOrderCommand,
) ([]assignment.Assignment, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	courierRepo := uow.CourierRepository()
	orderRepo := uow.OrderRepository()

	o, err := orderRepo.Get(ctx, command.orderID)
	if err != nil {
		return nil, err
	}

	holderID := o.CourierID()
	if err := o.Cancel(); err != nil {
		return nil, err
	}

	if holderID != nil {
		c, err := courierRepo.Get(ctx, *holderID)
		if err != nil {
			return nil, err
		}
		c.ReleaseOrder(o.ID())
		if err := courierRepo.Update(ctx, c); err != nil {
			return nil, err
		}
	}

	if err := orderRepo.Update(ctx, o); err != nil {
		return nil, err
	}

	made, err := assignPending(ctx, uow, h.dispatcher, command.at)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(ctx); err != nil {
		return nil, err
	}

	return made, nil
}
