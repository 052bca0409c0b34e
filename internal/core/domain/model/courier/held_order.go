package courier

import (
	"errors"
	"fmt"

	"dispatch/internal/pkg/errs"
)

// HeldOrder is an order sitting in a courier's bag together with the weight
// it contributes.
type HeldOrder struct {
	orderID int64
	weight  float64
}

func NewHeldOrder(orderID int64, weight float64) (HeldOrder, error) {
	var errList []error
	if orderID <= 0 {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
			"orderID", fmt.Errorf("%d is not greater than 0", orderID)))
	}
	if !(weight > 0) {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
			"weight", fmt.Errorf("%g is not greater than 0", weight)))
	}
	if err := errors.Join(errList...); err != nil {
		return HeldOrder{}, err
	}
	return HeldOrder{orderID: orderID, weight: weight}, nil
}

func (h HeldOrder) OrderID() int64 {
	return h.orderID
}

func (h HeldOrder) Weight() float64 {
	return h.weight
}
