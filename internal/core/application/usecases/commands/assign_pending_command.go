package commands

import (
	"errors"
	"time"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrAssignPendingCommandIsNotConstructed = errors.New(
	"AssignPendingCommand must be created via NewAssignPendingCommand constructor",
)

// AssignPendingCommand triggers one greedy sweep over every pending order.
// It is issued by the periodic job; heartbeats, new orders, cancellations and
// emergencies run the same sweep as part of their own handling.
type AssignPendingCommand struct {
	at    time.Time
	guard guard.ConstructorGuard
}

func NewAssignPendingCommand(at time.Time) (AssignPendingCommand, error) {
	if at.IsZero() {
		return AssignPendingCommand{}, errs.NewValueIsRequiredError("at")
	}
	return AssignPendingCommand{
		at:    at,
		guard: guard.NewConstructorGuard(),
	}, nil
}

func (c AssignPendingCommand) Validate() error {
	return c.guard.Validate(ErrAssignPendingCommandIsNotConstructed)
}
