package commands

import (
	"context"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/services"
)

// DeclareEmergencyCommandHandler puts a courier into emergency, reverts every
// order it held to pending and re-runs the assignment sweep. An unknown
// courier fails with errs.ErrObjectNotFound and changes nothing.
type DeclareEmergencyCommandHandler struct {
	uowFactory UoWFactory
	dispatcher services.OrderDispatcher
}

func NewDeclareEmergencyCommandHandler(uowFactory UoWFactory) DeclareEmergencyCommandHandler {
	return DeclareEmergencyCommandHandler{
		uowFactory: uowFactory,
		dispatcher: services.NewOrderDispatcher(),
	}
}

// Handle returns the assignments made while redistributing the orders.
func (h DeclareEmergencyCommandHandler) Handle(
	ctx context.Context,
	command DeclareEmergencyCommand,
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

	c, err := courierRepo.Get(ctx, command.courierID)
	if err != nil {
		return nil, err
	}

	for _, orderID := range c.DeclareEmergency() {
		o, err := orderRepo.Get(ctx, orderID)
		if err != nil {
			return nil, err
		}
		if err := o.Revert(); err != nil {
			return nil, err
		}
		if err := orderRepo.Update(ctx, o); err != nil {
			return nil, err
		}
	}

	if err := courierRepo.Update(ctx, c); err != nil {
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
