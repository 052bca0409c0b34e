package commands

import (
	"context"
	"errors"
	"fmt"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/pkg/errs"
)

// CourierDefaults are applied to couriers created from a heartbeat.
type CourierDefaults struct {
	// Capacity in kilograms when the heartbeat does not carry one.
	Capacity float64
	// MaxOrders caps how many orders a courier holds at once.
	MaxOrders int
}

// UpsertCourierCommandHandler registers or updates a courier and, if the
// courier ends up available, runs an assignment sweep in the same section.
type UpsertCourierCommandHandler struct {
	uowFactory UoWFactory
	dispatcher services.OrderDispatcher
	defaults   CourierDefaults
}

func NewUpsertCourierCommandHandler(uowFactory UoWFactory, defaults CourierDefaults) UpsertCourierCommandHandler {
	return UpsertCourierCommandHandler{
		uowFactory: uowFactory,
		dispatcher: services.NewOrderDispatcher(),
		defaults:   defaults,
	}
}

// Handle applies the heartbeat and returns the assignments made by the
// sweep it triggered, if any. An unknown courier without a transport type
// is rejected with errs.ErrValueIsRequired.
func (h UpsertCourierCommandHandler) Handle(
	ctx context.Context,
	command UpsertCourierCommand,
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
	heartbeat := courier.Heartbeat{
		Location:  command.location,
		Status:    command.status,
		Transport: command.transport,
		Name:      command.name,
		At:        command.at,
	}

	c, err := courierRepo.Get(ctx, command.courierID)
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		c, err = h.newCourier(command)
		if err != nil {
			return nil, err
		}
		if err := c.ApplyHeartbeat(heartbeat); err != nil {
			return nil, err
		}
		if err := courierRepo.Add(ctx, c); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		if err := c.ApplyHeartbeat(heartbeat); err != nil {
			return nil, err
		}
		if err := courierRepo.Update(ctx, c); err != nil {
			return nil, err
		}
	}

	var made []assignment.Assignment
	if c.Status() == courier.Available {
		made, err = assignPending(ctx, uow, h.dispatcher, command.at)
		if err != nil {
			return nil, err
		}
	}

	if err := uow.Commit(ctx); err != nil {
		return nil, err
	}

	return made, nil
}

func (h UpsertCourierCommandHandler) newCourier(command UpsertCourierCommand) (*courier.Courier, error) {
	if command.transport == nil {
		return nil, errs.NewValueIsRequiredError("transportType")
	}

	name := command.name
	if name == "" {
		name = fmt.Sprintf("Courier_%d", command.courierID)
	}
	capacity := command.capacity
	if capacity <= 0 {
		capacity = h.defaults.Capacity
	}

	return courier.NewCourier(
		command.courierID,
		name,
		*command.transport,
		command.location,
		capacity,
		h.defaults.MaxOrders,
		command.at,
	)
}
