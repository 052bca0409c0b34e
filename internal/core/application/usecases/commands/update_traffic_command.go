package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/traffic"
	"dispatch/internal/pkg/guard"
)

var ErrUpdateTrafficCommandIsNotConstructed = errors.New(
	"UpdateTrafficCommand must be created via NewUpdateTrafficCommand constructor",
)

// UpdateTrafficCommand replaces the process-wide traffic condition.
//
// Example:
//
//	cond, err := traffic.ParseCondition("heavy")
//	cmd := NewUpdateTrafficCommand(cond)
type UpdateTrafficCommand struct {
	condition traffic.Condition
	guard     guard.ConstructorGuard
}

func NewUpdateTrafficCommand(condition traffic.Condition) UpdateTrafficCommand {
	return UpdateTrafficCommand{
		condition: condition,
		guard:     guard.NewConstructorGuard(),
	}
}

func (c UpdateTrafficCommand) Condition() traffic.Condition {
	return c.condition
}

func (c UpdateTrafficCommand) Validate() error {
	return c.guard.Validate(ErrUpdateTrafficCommandIsNotConstructed)
}
