package order

import (
	"errors"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var (
	// ErrOrderIsNotConstructed is returned when a zero-value Order is used.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")
	// ErrCourierIDIsInvalid is returned when an order is assigned to a non-positive courier ID.
	ErrCourierIDIsInvalid = errs.NewValueIsInvalidError("courierID")
)

// Order is a parcel waiting to be carried to its destination.
//
// Order is an entity identified by the integer ID its client supplies. The
// dispatch engine mutates it only inside its exclusive section; Order itself is
// not safe for concurrent use.
//
// Invariants enforced by the methods:
//   - weight is strictly positive
//   - a courier ID is present iff the status is Assigned
//   - delivered and cancelled orders never change again
type Order struct {
	// id is the client-assigned identifier
	id int64
	// destination is where the order must be dropped off
	destination kernel.Location
	// weight in kilograms, counted against the courier's capacity
	weight float64
	// priority moves the order up or down the assignment queue
	priority Priority
	// timeWindow is the requested delivery slot, e.g. "10:00-12:00". Advisory only.
	timeWindow string
	// description is free text for the courier
	description string
	// status is the lifecycle position
	status Status
	// courierID is the courier currently holding the order, nil unless Assigned
	courierID *int64
	// deliveredBy records the courier that completed the delivery
	deliveredBy *int64
	// createdAt orders the pending queue within one priority class
	createdAt time.Time
	// assignedAt is the time of the last successful Assign
	assignedAt time.Time
	// deliveredAt is the time Deliver succeeded
	deliveredAt time.Time
	// guard ensures the order was properly constructed
	guard guard.ConstructorGuard
}

// NewOrder creates a pending order.
//
// Parameters:
//   - id: client-assigned identifier, must be positive
//   - destination: drop-off point, must be constructed
//   - weight: kilograms, must be greater than zero
//   - priority: one of PriorityHigh, PriorityNormal, PriorityLow
//   - timeWindow, description: free text, may be empty
//   - createdAt: creation instant, must not be zero
//
// All validation failures are joined into the returned error.
//
// Example:
//
//	dst := kernel.MustNewLocation(55.753605, 37.621585)
//	o, err := order.NewOrder(101, dst, 5.0, order.PriorityHigh, "10:00-12:00", "documents", time.Now())
func NewOrder(
	id int64,
	destination kernel.Location,
	weight float64,
	priority Priority,
	timeWindow string,
	description string,
	createdAt time.Time,
) (*Order, error) {
	o := &Order{
		status:      Pending,
		timeWindow:  timeWindow,
		description: description,
		guard:       guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setDestination(destination),
		o.setWeight(weight),
		o.setPriority(priority),
		o.setCreatedAt(createdAt),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreParams carries the full state of an order for rehydration by storage adapters.
type RestoreParams struct {
	ID          int64
	Destination kernel.Location
	Weight      float64
	Priority    Priority
	TimeWindow  string
	Description string
	Status      Status
	CourierID   *int64
	DeliveredBy *int64
	CreatedAt   time.Time
	AssignedAt  time.Time
	DeliveredAt time.Time
}

// RestoreOrder rebuilds an order from stored state, re-checking every invariant.
func RestoreOrder(p RestoreParams) (*Order, error) {
	o := &Order{
		timeWindow:  p.TimeWindow,
		description: p.Description,
		assignedAt:  p.AssignedAt,
		deliveredAt: p.DeliveredAt,
		deliveredBy: copyID(p.DeliveredBy),
		guard:       guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(p.ID),
		o.setDestination(p.Destination),
		o.setWeight(p.Weight),
		o.setPriority(p.Priority),
		o.setCreatedAt(p.CreatedAt),
		o.setStatus(p.Status, p.CourierID),
	); err != nil {
		return nil, err
	}

	return o, nil
}

func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id == other.id
}

func (o *Order) ID() int64 {
	return o.id
}

func (o *Order) Destination() kernel.Location {
	return o.destination
}

func (o *Order) Weight() float64 {
	return o.weight
}

func (o *Order) Priority() Priority {
	return o.priority
}

func (o *Order) TimeWindow() string {
	return o.timeWindow
}

func (o *Order) Description() string {
	return o.description
}

func (o *Order) Status() Status {
	return o.status
}

// CourierID returns the courier holding the order, or nil.
func (o *Order) CourierID() *int64 {
	return copyID(o.courierID)
}

// DeliveredBy returns the courier that completed the order, or nil.
func (o *Order) DeliveredBy() *int64 {
	return copyID(o.deliveredBy)
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

func (o *Order) AssignedAt() time.Time {
	return o.assignedAt
}

func (o *Order) DeliveredAt() time.Time {
	return o.deliveredAt
}

func (o *Order) IsPending() bool {
	return o.status == Pending
}

// DeliveryDuration returns how long the last holder took from assignment to
// delivery. ok is false for orders that are not delivered.
func (o *Order) DeliveryDuration() (d time.Duration, ok bool) {
	if o.status != Delivered || o.assignedAt.IsZero() {
		return 0, false
	}
	return o.deliveredAt.Sub(o.assignedAt), true
}

// Assign hands a pending order to a courier.
func (o *Order) Assign(courierID int64, at time.Time) error {
	if courierID <= 0 {
		return ErrCourierIDIsInvalid
	}

	next, err := o.status.Assign()
	if err != nil {
		return err
	}

	o.status = next
	o.courierID = &courierID
	o.assignedAt = at
	return nil
}

// Deliver completes an assigned order and moves the holder into DeliveredBy.
func (o *Order) Deliver(at time.Time) error {
	next, err := o.status.Deliver()
	if err != nil {
		return err
	}

	o.status = next
	o.deliveredBy = o.courierID
	o.courierID = nil
	o.deliveredAt = at
	return nil
}

// Revert returns an assigned order to the pending queue and clears the assignee.
func (o *Order) Revert() error {
	next, err := o.status.Revert()
	if err != nil {
		return err
	}

	o.status = next
	o.courierID = nil
	return nil
}

// Cancel withdraws a pending or assigned order. The caller releases it from
// the holding courier.
func (o *Order) Cancel() error {
	next, err := o.status.Cancel()
	if err != nil {
		return err
	}

	o.status = next
	o.courierID = nil
	return nil
}

func (o *Order) setID(id int64) error {
	if id <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("id", fmt.Errorf("%d is not greater than 0", id))
	}
	o.id = id
	return nil
}

func (o *Order) setDestination(destination kernel.Location) error {
	if err := destination.Validate(); err != nil {
		return err
	}
	o.destination = destination
	return nil
}

func (o *Order) setWeight(weight float64) error {
	if !(weight > 0) {
		return errs.NewValueIsInvalidErrorWithCause("weight", fmt.Errorf("%g is not greater than 0", weight))
	}
	o.weight = weight
	return nil
}

func (o *Order) setPriority(priority Priority) error {
	if err := priority.Validate(); err != nil {
		return err
	}
	o.priority = priority
	return nil
}

func (o *Order) setCreatedAt(createdAt time.Time) error {
	if createdAt.IsZero() {
		return errs.NewValueIsRequiredError("createdAt")
	}
	o.createdAt = createdAt
	return nil
}

func (o *Order) setStatus(status Status, courierID *int64) error {
	if err := status.Validate(); err != nil {
		return err
	}
	if err := status.ValidateCanHaveCourier(courierID != nil); err != nil {
		return err
	}
	o.status = status
	o.courierID = copyID(courierID)
	return nil
}

func copyID(id *int64) *int64 {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
