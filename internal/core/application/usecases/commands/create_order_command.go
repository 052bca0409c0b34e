package commands

import (
	"errors"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand represents a new delivery order submitted by a client.
//
// Example:
//
//	dst := kernel.MustNewLocation(55.7558, 37.6173)
//	cmd, err := NewCreateOrderCommand(101, dst, 5, order.PriorityHigh, "10:00-12:00", "documents", time.Now())
type CreateOrderCommand struct {
	orderID     int64
	destination kernel.Location
	weight      float64
	priority    order.Priority
	timeWindow  string
	description string
	createdAt   time.Time

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates the order fields. All failures are joined
// into the returned error.
func NewCreateOrderCommand(
	orderID int64,
	destination kernel.Location,
	weight float64,
	priority order.Priority,
	timeWindow string,
	description string,
	createdAt time.Time,
) (CreateOrderCommand, error) {
	var errList []error
	if orderID <= 0 {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
			"orderID", fmt.Errorf("%d is not greater than 0", orderID)))
	}
	if err := destination.Validate(); err != nil {
		errList = append(errList, errs.NewValueIsRequiredErrorWithCause("destination", err))
	}
	if weight <= 0 {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
			"weight", fmt.Errorf("%v is not greater than 0", weight)))
	}
	if err := priority.Validate(); err != nil {
		errList = append(errList, err)
	}
	if createdAt.IsZero() {
		errList = append(errList, errs.NewValueIsRequiredError("createdAt"))
	}
	if err := errors.Join(errList...); err != nil {
		return CreateOrderCommand{}, err
	}

	return CreateOrderCommand{
		orderID:     orderID,
		destination: destination,
		weight:      weight,
		priority:    priority,
		timeWindow:  timeWindow,
		description: description,
		createdAt:   createdAt,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (c CreateOrderCommand) OrderID() int64 {
	return c.orderID
}

func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}
