package commands

import (
	"errors"
	"fmt"
	"time"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrCancelOrderCommandIsNotConstructed = errors.New(
	"CancelOrderCommand must be created via NewCancelOrderCommand constructor",
)

// CancelOrderCommand withdraws a pending or assigned order.
type CancelOrderCommand struct {
	orderID int64
	at      time.Time
	guard   guard.ConstructorGuard
}

func NewCancelOrderCommand(orderID int64, at time.Time) (CancelOrderCommand, error) {
	if orderID <= 0 {
		return CancelOrderCommand{}, errs.NewValueIsInvalidErrorWithCause(
			"orderID", fmt.Errorf("%d is not greater than 0", orderID))
	}
	if at.IsZero() {
		return CancelOrderCommand{}, errs.NewValueIsRequiredError("at")
	}

	return CancelOrderCommand{
		orderID: orderID,
		at:      at,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c CancelOrderCommand) OrderID() int64 {
	return c.orderID
}

func (c CancelOrderCommand) Validate() error {
	return c.guard.Validate(ErrCancelOrderCommandIsNotConstructed)
}
