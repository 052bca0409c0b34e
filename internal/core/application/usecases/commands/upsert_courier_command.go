package commands

import (
	"errors"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrUpsertCourierCommandIsNotConstructed = errors.New(
	"UpsertCourierCommand must be created via NewUpsertCourierCommand constructor",
)

// UpsertCourierCommand carries one courier heartbeat. The first heartbeat of
// an unknown courier ID registers it; later ones update position and status.
//
// Optional fields are set with the With* methods. A missing status means
// available, a missing capacity means the handler's configured default.
//
// Example:
//
//	cmd, err := NewUpsertCourierCommand(7, kernel.MustNewLocation(55.75, 37.61), time.Now())
//	cmd = cmd.WithTransport(courier.Car).WithName("Ivan")
type UpsertCourierCommand struct {
	courierID int64
	location  kernel.Location
	at        time.Time
	status    *courier.Status
	transport *courier.TransportType
	name      string
	capacity  float64

	guard guard.ConstructorGuard
}

// NewUpsertCourierCommand validates the mandatory heartbeat fields.
func NewUpsertCourierCommand(courierID int64, location kernel.Location, at time.Time) (UpsertCourierCommand, error) {
	if courierID <= 0 {
		return UpsertCourierCommand{}, errs.NewValueIsInvalidErrorWithCause(
			"courierID", fmt.Errorf("%d is not greater than 0", courierID))
	}
	if err := location.Validate(); err != nil {
		return UpsertCourierCommand{}, errs.NewValueIsRequiredErrorWithCause("location", err)
	}
	if at.IsZero() {
		return UpsertCourierCommand{}, errs.NewValueIsRequiredError("at")
	}

	return UpsertCourierCommand{
		courierID: courierID,
		location:  location,
		at:        at,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c UpsertCourierCommand) WithStatus(status courier.Status) UpsertCourierCommand {
	c.status = &status
	return c
}

func (c UpsertCourierCommand) WithTransport(transport courier.TransportType) UpsertCourierCommand {
	c.transport = &transport
	return c
}

func (c UpsertCourierCommand) WithName(name string) UpsertCourierCommand {
	c.name = name
	return c
}

// WithCapacity overrides the default capacity for a courier seen for the
// first time. It has no effect on known couriers.
func (c UpsertCourierCommand) WithCapacity(capacity float64) UpsertCourierCommand {
	c.capacity = capacity
	return c
}

func (c UpsertCourierCommand) CourierID() int64 {
	return c.courierID
}

func (c UpsertCourierCommand) Location() kernel.Location {
	return c.location
}

func (c UpsertCourierCommand) At() time.Time {
	return c.at
}

func (c UpsertCourierCommand) Validate() error {
	return c.guard.Validate(ErrUpsertCourierCommandIsNotConstructed)
}
