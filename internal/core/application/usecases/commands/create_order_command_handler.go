package commands

import (
	"context"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
)

// CreateOrderCommandHandler stores a new pending order and immediately tries
// to assign it together with everything else that is pending.
//
// A duplicate order ID fails with errs.ErrObjectAlreadyExists and leaves the
// state untouched.
type CreateOrderCommandHandler struct {
	uowFactory UoWFactory
	dispatcher services.OrderDispatcher
}

func NewCreateOrderCommandHandler(uowFactory UoWFactory) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		dispatcher: services.NewOrderDispatcher(),
	}
}

func (h CreateOrderCommandHandler) Handle(
	ctx context.Context,
	command CreateOrderCommand,
) ([]assignment.Assignment, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}

	o, err := order.NewOrder(
		command.orderID,
		command.destination,
		command.weight,
		command.priority,
		command.timeWindow,
		command.description,
		command.createdAt,
	)
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.OrderRepository().Add(ctx, o); err != nil {
		return nil, err
	}

	made, err := assignPending(ctx, uow, h.dispatcher, command.createdAt)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(ctx); err != nil {
		return nil, err
	}

	return made, nil
}
