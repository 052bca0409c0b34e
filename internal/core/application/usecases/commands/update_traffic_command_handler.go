package commands

import (
	"context"
)

// TrafficUoW is the unit of work needed to change traffic. Holding the
// section keeps a sweep from seeing two different factors.
type (
	TrafficUoW interface {
		TxManager
		TrafficProvider
	}

	TrafficUoWFactory interface {
		Create() TrafficUoW
	}
)

type UpdateTrafficCommandHandler struct {
	uowFactory TrafficUoWFactory
}

func NewUpdateTrafficCommandHandler(uowFactory TrafficUoWFactory) UpdateTrafficCommandHandler {
	return UpdateTrafficCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle fails with traffic.ErrInvalidCondition for an unknown condition.
func (h UpdateTrafficCommandHandler) Handle(ctx context.Context, command UpdateTrafficCommand) error {
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

	if err := uow.Traffic().Set(command.condition); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
