package commands

import (
	"errors"
	"fmt"
	"time"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrCompleteDeliveryCommandIsNotConstructed = errors.New(
	"CompleteDeliveryCommand must be created via NewCompleteDeliveryCommand constructor",
)

// CompleteDeliveryCommand confirms that a courier handed over an order.
type CompleteDeliveryCommand struct {
	courierID int64
	orderID   int64
	at        time.Time
	guard     guard.ConstructorGuard
}

func NewCompleteDeliveryCommand(courierID, orderID int64, at time.Time) (CompleteDeliveryCommand, error) {
	var errList []error
	if courierID <= 0 {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
			"courierID", fmt.Errorf("%d is not greater than 0", courierID)))
	}
	if orderID <= 0 {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
			"orderID", fmt.Errorf("%d is not greater than 0", orderID)))
	}
	if at.IsZero() {
		errList = append(errList, errs.NewValueIsRequiredError("at"))
	}
	if err := errors.Join(errList...); err != nil {
		return CompleteDeliveryCommand{}, err
	}

	return CompleteDeliveryCommand{
		courierID: courierID,
		orderID:   orderID,
		at:        at,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c CompleteDeliveryCommand) CourierID() int64 {
	return c.courierID
}

func (c CompleteDeliveryCommand) OrderID() int64 {
	return c.orderID
}

func (c CompleteDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrCompleteDeliveryCommandIsNotConstructed)
}
