package commands

import (
	"errors"
	"fmt"
	"time"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrDeclareEmergencyCommandIsNotConstructed = errors.New(
	"DeclareEmergencyCommand must be created via NewDeclareEmergencyCommand constructor",
)

// DeclareEmergencyCommand takes a courier out of service. Its orders go back
// to the pending queue and are redistributed in the same section.
type DeclareEmergencyCommand struct {
	courierID int64
	at        time.Time
	guard     guard.ConstructorGuard
}

func NewDeclareEmergencyCommand(courierID int64, at time.Time) (DeclareEmergencyCommand, error) {
	if courierID <= 0 {
		return DeclareEmergencyCommand{}, errs.NewValueIsInvalidErrorWithCause(
			"courierID", fmt.Errorf("%d is not greater than 0", courierID))
	}
	if at.IsZero() {
		return DeclareEmergencyCommand{}, errs.NewValueIsRequiredError("at")
	}

	return DeclareEmergencyCommand{
		courierID: courierID,
		at:        at,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c DeclareEmergencyCommand) CourierID() int64 {
	return c.courierID
}

func (c DeclareEmergencyCommand) Validate() error {
	return c.guard.Validate(ErrDeclareEmergencyCommandIsNotConstructed)
}
