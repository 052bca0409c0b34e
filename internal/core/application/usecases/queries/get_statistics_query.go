package queries

import (
	"errors"
	"fmt"
	"time"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrGetStatisticsQueryIsNotConstructed = errors.New(
	"GetStatisticsQuery must be created via NewGetStatisticsQuery constructor",
)

// GetStatisticsQuery returns the counters carried by periodic updates.
type GetStatisticsQuery struct {
	now        time.Time
	staleAfter time.Duration
	guard      guard.ConstructorGuard
}

func NewGetStatisticsQuery(now time.Time, staleAfter time.Duration) (GetStatisticsQuery, error) {
	if now.IsZero() {
		return GetStatisticsQuery{}, errs.NewValueIsRequiredError("now")
	}
	if staleAfter <= 0 {
		return GetStatisticsQuery{}, errs.NewValueIsInvalidErrorWithCause(
			"staleAfter", fmt.Errorf("%s is not greater than 0", staleAfter))
	}

	return GetStatisticsQuery{
		now:        now,
		staleAfter: staleAfter,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (q GetStatisticsQuery) Validate() error {
	return q.guard.Validate(ErrGetStatisticsQueryIsNotConstructed)
}
