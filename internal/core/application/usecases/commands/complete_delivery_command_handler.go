package commands

import (
	"context"
)

// CompleteDeliveryCommandHandler marks an order delivered and frees the
// courier's capacity. It does not start a sweep; the periodic job or the
// courier's next heartbeat picks up any pending work.
//
// Errors:
//   - errs.ErrObjectNotFound when the courier or the order is unknown
//   - courier.ErrOrderNotHeld when the courier does not carry the order
type CompleteDeliveryCommandHandler struct {
	uowFactory UoWFactory
}

func NewCompleteDeliveryCommandHandler(uowFactory UoWFactory) CompleteDeliveryCommandHandler {
	return CompleteDeliveryCommandHandler{
		uowFactory: uowFactory,
	}
}

func (h CompleteDeliveryCommandHandler) Handle(ctx context.Context, command CompleteDeliveryCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	courierRepo := uow.CourierRepository()
	orderRepo := uow.OrderRepository()

	c, err := courierRepo.Get(ctx, command.courierID)
	if err != nil {
		return err
	}
	o, err := orderRepo.Get(ctx, command.orderID)
	if err != nil {
		return err
	}

	if err := c.CompleteOrder(o, command.at); err != nil {
		return err
	}

	if err := orderRepo.Update(ctx, o); err != nil {
		return err
	}
	if err := courierRepo.Update(ctx, c); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
