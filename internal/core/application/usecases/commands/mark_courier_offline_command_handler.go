package commands

import (
	"context"
)

// MarkCourierOfflineCommandHandler sets a courier offline. Held orders stay
// with the courier, so a reconnect resumes where it left off.
type MarkCourierOfflineCommandHandler struct {
	uowFactory CourierUoWFactory
}

func NewMarkCourierOfflineCommandHandler(uowFactory CourierUoWFactory) MarkCourierOfflineCommandHandler {
	return MarkCourierOfflineCommandHandler{
		uowFactory: uowFactory,
	}
}

func (h MarkCourierOfflineCommandHandler) Handle(ctx context.Context, command MarkCourierOfflineCommand) error {
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
	c, err := courierRepo.Get(ctx, command.courierID)
	if err != nil {
		return err
	}

	c.MarkOffline()
	if err := courierRepo.Update(ctx, c); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
