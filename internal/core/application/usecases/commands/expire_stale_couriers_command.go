package commands

import (
	"errors"
	"fmt"
	"time"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrExpireStaleCouriersCommandIsNotConstructed = errors.New(
	"ExpireStaleCouriersCommand must be created via NewExpireStaleCouriersCommand constructor",
)

// ExpireStaleCouriersCommand marks couriers offline whose last heartbeat is
// older than staleAfter at now.
type ExpireStaleCouriersCommand struct {
	now        time.Time
	staleAfter time.Duration
	guard      guard.ConstructorGuard
}

func NewExpireStaleCouriersCommand(now time.Time, staleAfter time.Duration) (ExpireStaleCouriersCommand, error) {
	if now.IsZero() {
		return ExpireStaleCouriersCommand{}, errs.NewValueIsRequiredError("now")
	}
	if staleAfter <= 0 {
		return ExpireStaleCouriersCommand{}, errs.NewValueIsInvalidErrorWithCause(
			"staleAfter", fmt.Errorf("%s is not greater than 0", staleAfter))
	}

	return ExpireStaleCouriersCommand{
		now:        now,
		staleAfter: staleAfter,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c ExpireStaleCouriersCommand) Validate() error {
	return c.guard.Validate(ErrExpireStaleCouriersCommandIsNotConstructed)
}
