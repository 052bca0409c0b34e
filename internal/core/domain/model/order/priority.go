package order

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

type Priority int

const (
	// PriorityUnknown is the zero value and never valid.
	PriorityUnknown Priority = iota
	PriorityHigh
	PriorityNormal
	PriorityLow
)

var priorityNames = map[Priority]string{
	PriorityHigh:   "high",
	PriorityNormal: "normal",
	PriorityLow:    "low",
}

// ParsePriority accepts "high", "normal" and "low".
func ParsePriority(s string) (Priority, error) {
	for p, name := range priorityNames {
		if name == s {
			return p, nil
		}
	}
	return PriorityUnknown, errs.NewValueIsInvalidErrorWithCause("priority", fmt.Errorf("%q is not a priority", s))
}

func (p Priority) String() string {
	if name, ok := priorityNames[p]; ok {
		return name
	}
	return "unknown"
}

func (p Priority) Validate() error {
	if _, ok := priorityNames[p]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("priority", fmt.Errorf("%d is not a valid priority", p))
	}
	return nil
}
