package commands

import (
	"errors"
	"fmt"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrMarkCourierOfflineCommandIsNotConstructed = errors.New(
	"MarkCourierOfflineCommand must be created via NewMarkCourierOfflineCommand constructor",
)

// MarkCourierOfflineCommand is issued when a courier's connection closes
// under the mark-offline retention policy.
type MarkCourierOfflineCommand struct {
	courierID int64
	guard     guard.ConstructorGuard
}

func NewMarkCourierOfflineCommand(courierID int64) (MarkCourierOfflineCommand, error) {
	if courierID <= 0 {
		return MarkCourierOfflineCommand{}, errs.NewValueIsInvalidErrorWithCause(
			"courierID", fmt.Errorf("%d is not greater than 0", courierID))
	}
	return MarkCourierOfflineCommand{
		courierID: courierID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c MarkCourierOfflineCommand) Validate() error {
	return c.guard.Validate(ErrMarkCourierOfflineCommandIsNotConstructed)
}
