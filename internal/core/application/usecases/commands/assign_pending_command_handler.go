package commands

import (
	"context"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/services"
)

// AssignPendingCommandHandler runs a standalone assignment sweep.
//
// Example:
//
//	cmd, _ := NewAssignPendingCommand(time.Now())
//	made, err := handler.Handle(ctx, cmd)
//	if err == nil && len(made) == 0 {
//	    log.Println("nothing could be assigned")
//	}
type AssignPendingCommandHandler struct {
	uowFactory UoWFactory
	dispatcher services.OrderDispatcher
}

func NewAssignPendingCommandHandler(uowFactory UoWFactory) AssignPendingCommandHandler {
	return AssignPendingCommandHandler{
		uowFactory: uowFactory,
		dispatcher: services.NewOrderDispatcher(),
	}
}

func (h AssignPendingCommandHandler) Handle(
	ctx context.Context,
	command AssignPendingCommand,
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

	made, err := assignPending(ctx, uow, h.dispatcher, command.at)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(ctx); err != nil {
		return nil, err
	}

	return made, nil
}
