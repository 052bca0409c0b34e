// Package assignment holds the append-only record of courier/order pairings
// made by the dispatcher.
package assignment

import (
	"errors"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrAssignmentIsNotConstructed = errors.New("Assignment must be created via NewAssignment")

// Assignment records one decision of the greedy sweep: which courier got which
// order, the estimated travel time and the score that won.
type Assignment struct {
	id               kernel.UUID
	courierID        int64
	orderID          int64
	estimatedMinutes float64
	score            float64
	assignedAt       time.Time
	guard            guard.ConstructorGuard
}

func NewAssignment(courierID, orderID int64, estimatedMinutes, score float64, at time.Time) (Assignment, error) {
	return RestoreAssignment(kernel.NewUUID(), courierID, orderID, estimatedMinutes, score, at)
}

func RestoreAssignment(
	id kernel.UUID,
	courierID, orderID int64,
	estimatedMinutes, score float64,
	at time.Time,
) (Assignment, error) {
	var errList []error
	if err := id.Validate(); err != nil {
		errList = append(errList, err)
	}
	if courierID <= 0 {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
			"courierID", fmt.Errorf("%d is not greater than 0", courierID)))
	}
	if orderID <= 0 {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
			"orderID", fmt.Errorf("%d is not greater than 0", orderID)))
	}
	if estimatedMinutes < 0 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("estimatedMinutes", estimatedMinutes, 0, "+inf"))
	}
	if err := errors.Join(errList...); err != nil {
		return Assignment{}, err
	}

	return Assignment{
		id:               id,
		courierID:        courierID,
		orderID:          orderID,
		estimatedMinutes: estimatedMinutes,
		score:            score,
		assignedAt:       at,
		guard:            guard.NewConstructorGuard(),
	}, nil
}

func (a Assignment) Validate() error {
	return a.guard.Validate(ErrAssignmentIsNotConstructed)
}

func (a Assignment) ID() kernel.UUID           { return a.id }
func (a Assignment) CourierID() int64          { return a.courierID }
func (a Assignment) OrderID() int64            { return a.orderID }
func (a Assignment) EstimatedMinutes() float64 { return a.estimatedMinutes }
func (a Assignment) Score() float64            { return a.score }
func (a Assignment) AssignedAt() time.Time     { return a.assignedAt }
