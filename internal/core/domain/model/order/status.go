package order

import (
	"errors"
	"fmt"

	"dispatch/internal/pkg/errs"
)

// ErrInvalidStatusTransition is wrapped by every rejected lifecycle change.
var ErrInvalidStatusTransition = errors.New("order status transition is not allowed")

type Status int

const (
	// Unknown is the zero value and never a valid status.
	Unknown Status = iota
	Pending
	Assigned
	Delivered
	Cancelled
)

var statusNames = map[Status]string{
	Pending:   "pending",
	Assigned:  "assigned",
	Delivered: "delivered",
	Cancelled: "cancelled",
}

// ParseStatus accepts the lowercase names used on the wire.
func ParseStatus(s string) (Status, error) {
	for status, name := range statusNames {
		if name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not an order status", s))
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}

func (s Status) Validate() error {
	if _, ok := statusNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// IsFinal reports whether no further transition is possible.
func (s Status) IsFinal() bool {
	return s == Delivered || s == Cancelled
}

// ValidateCanHaveCourier checks the assignee invariant: only assigned orders
// carry a courier.
func (s Status) ValidateCanHaveCourier(hasCourier bool) error {
	if hasCourier != (s == Assigned) {
		return errs.NewValueIsInvalidErrorWithCause(
			"courierID",
			fmt.Errorf("order in status %s cannot have courier=%t", s, hasCourier),
		)
	}
	return nil
}

func (s Status) Assign() (Status, error) {
	if s != Pending {
		return Unknown, transitionError("assign", s)
	}
	return Assigned, nil
}

func (s Status) Deliver() (Status, error) {
	if s != Assigned {
		return Unknown, transitionError("deliver", s)
	}
	return Delivered, nil
}

func (s Status) Revert() (Status, error) {
	if s != Assigned {
		return Unknown, transitionError("revert", s)
	}
	return Pending, nil
}

func (s Status) Cancel() (Status, error) {
	if s != Pending && s != Assigned {
		return Unknown, transitionError("cancel", s)
	}
	return Cancelled, nil
}

func transitionError(action string, from Status) error {
	return fmt.Errorf("%w: cannot %s an order that is %s", ErrInvalidStatusTransition, action, from)
}
