package queries

import (
	"errors"
	"fmt"
	"time"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrGetSystemStatusQueryIsNotConstructed = errors.New(
	"GetSystemStatusQuery must be created via NewGetSystemStatusQuery constructor",
)

// GetSystemStatusQuery builds the snapshot broadcast to every session.
//
// Only couriers whose last heartbeat is within staleAfter of now are
// included, and only assignments of those couriers that are still open.
// Orders are always listed in full.
//
// Example:
//
//	query, _ := NewGetSystemStatusQuery(time.Now(), 300*time.Second)
//	status, err := handler.Handle(ctx, query)
type GetSystemStatusQuery struct {
	now        time.Time
	staleAfter time.Duration
	guard      guard.ConstructorGuard
}

func NewGetSystemStatusQuery(now time.Time, staleAfter time.Duration) (GetSystemStatusQuery, error) {
	if now.IsZero() {
		return GetSystemStatusQuery{}, errs.NewValueIsRequiredError("now")
	}
	if staleAfter <= 0 {
		return GetSystemStatusQuery{}, errs.NewValueIsInvalidErrorWithCause(
			"staleAfter", fmt.Errorf("%s is not greater than 0", staleAfter))
	}

	return GetSystemStatusQuery{
		now:        now,
		staleAfter: staleAfter,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (q GetSystemStatusQuery) Validate() error {
	return q.guard.Validate(ErrGetSystemStatusQueryIsNotConstructed)
}

// SystemStatus is the full observer snapshot.
type SystemStatus struct {
	Couriers    []CourierView    `json:"couriers"`
	Orders      []OrderView      `json:"orders"`
	Assignments []AssignmentView `json:"assignments"`
	Statistics  StatisticsView   `json:"statistics"`
	Traffic     string           `json:"traffic"`
	Timestamp   time.Time        `json:"timestamp"`
}
