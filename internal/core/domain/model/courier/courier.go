package courier

import (
	"errors"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var (
	// ErrNameIsRequired is returned when a courier has an empty name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrSpeedIsRequired is returned when the transport has no positive speed.
	ErrSpeedIsRequired = errs.NewValueIsRequiredError("speed")
	// ErrCourierIsNotConstructed is returned when using an improperly initialized Courier.
	ErrCourierIsNotConstructed = errors.New("Courier must be created via NewCourier or RestoreCourier")
	// ErrCannotAcceptOrder is returned by Accept when CanAccept is false.
	ErrCannotAcceptOrder = errors.New("courier cannot accept order")
	// ErrOrderNotHeld is returned when completing an order the courier does not carry.
	ErrOrderNotHeld = errors.New("order is not held by courier")
	// ErrEmergencyMustBeDeclared is returned when a heartbeat reports an
	// emergency while the courier still holds orders.
	ErrEmergencyMustBeDeclared = errors.New("courier holding orders must declare the emergency")
)

// Courier is a delivery agent known to the dispatch engine.
//
// Courier is an entity identified by the integer ID its client reports. It is
// created on the first heartbeat and never removed; staleness only hides it
// from snapshots.
//
// Invariants enforced by the methods:
//   - current weight equals the sum of held order weights and never exceeds maxCapacity
//   - the number of held orders never exceeds maxOrders
//   - status is Busy whenever the held count reaches maxOrders (unless Emergency or Offline)
//   - an Emergency courier holds nothing
type Courier struct {
	// id is the client-assigned identifier
	id int64
	// name is shown to observers
	name string
	// transport determines travel speed
	transport TransportType
	// location is the last reported position
	location kernel.Location
	// maxCapacity is the carryable weight in kilograms
	maxCapacity float64
	// maxOrders caps how many orders the courier may hold at once
	maxOrders int
	// heldOrders are the orders currently assigned, in acceptance order
	heldOrders []HeldOrder
	// status is the availability state
	status Status
	// lastHeartbeat is when the courier last reported in
	lastHeartbeat time.Time
	// guard ensures the courier was properly constructed
	guard guard.ConstructorGuard
}

// NewCourier creates an available courier holding nothing.
//
// Parameters:
//   - id: client-assigned identifier, must be positive
//   - name: display name, must not be empty
//   - transport: determines speed, must be a known TransportType
//   - location: current position, must be constructed
//   - maxCapacity: carryable weight in kilograms, must be positive
//   - maxOrders: order cap, must be positive
//   - heartbeatAt: time of the first heartbeat
//
// Example:
//
//	loc := kernel.MustNewLocation(55.751244, 37.618423)
//	c, err := courier.NewCourier(1, "Ivan", courier.Car, loc, 50, 5, time.Now())
func NewCourier(
	id int64,
	name string,
	transport TransportType,
	location kernel.Location,
	maxCapacity float64,
	maxOrders int,
	heartbeatAt time.Time,
) (*Courier, error) {
	c := &Courier{
		status:        Available,
		lastHeartbeat: heartbeatAt,
		guard:         guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		c.setID(id),
		c.setName(name),
		c.setTransport(transport),
		c.setLocation(location),
		c.setMaxCapacity(maxCapacity),
		c.setMaxOrders(maxOrders),
	); err != nil {
		return nil, err
	}

	return c, nil
}

// RestoreParams carries the full state of a courier for rehydration by storage adapters.
type RestoreParams struct {
	ID            int64
	Name          string
	Transport     TransportType
	Location      kernel.Location
	MaxCapacity   float64
	MaxOrders     int
	HeldOrders    []HeldOrder
	Status        Status
	LastHeartbeat time.Time
}

// RestoreCourier rebuilds a courier from stored state, re-checking every invariant.
func RestoreCourier(p RestoreParams) (*Courier, error) {
	c := &Courier{
		lastHeartbeat: p.LastHeartbeat,
		guard:         guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		c.setID(p.ID),
		c.setName(p.Name),
		c.setTransport(p.Transport),
		c.setLocation(p.Location),
		c.setMaxCapacity(p.MaxCapacity),
		c.setMaxOrders(p.MaxOrders),
		c.setStatus(p.Status),
	); err != nil {
		return nil, err
	}

	if err := c.setHeldOrders(p.HeldOrders); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Courier) Validate() error {
	if c == nil {
		return ErrCourierIsNotConstructed
	}
	return c.guard.Validate(ErrCourierIsNotConstructed)
}

func (c *Courier) IsEqual(other *Courier) bool {
	return other != nil && c.id == other.id
}

func (c *Courier) ID() int64 {
	return c.id
}

func (c *Courier) Name() string {
	return c.name
}

func (c *Courier) Transport() TransportType {
	return c.transport
}

func (c *Courier) Location() kernel.Location {
	return c.location
}

func (c *Courier) MaxCapacity() float64 {
	return c.maxCapacity
}

func (c *Courier) MaxOrders() int {
	return c.maxOrders
}

func (c *Courier) Status() Status {
	return c.status
}

func (c *Courier) LastHeartbeat() time.Time {
	return c.lastHeartbeat
}

// HeldOrders returns a copy of the held orders in acceptance order.
func (c *Courier) HeldOrders() []HeldOrder {
	out := make([]HeldOrder, len(c.heldOrders))
	copy(out, c.heldOrders)
	return out
}

// HeldOrderIDs returns the IDs of the held orders in acceptance order.
func (c *Courier) HeldOrderIDs() []int64 {
	ids := make([]int64, 0, len(c.heldOrders))
	for _, h := range c.heldOrders {
		ids = append(ids, h.orderID)
	}
	return ids
}

// CurrentWeight is the total weight of the held orders.
func (c *Courier) CurrentWeight() float64 {
	var total float64
	for _, h := range c.heldOrders {
		total += h.weight
	}
	return total
}

// Holds reports whether the courier carries orderID.
func (c *Courier) Holds(orderID int64) bool {
	return c.indexOf(orderID) >= 0
}

// IsActive reports whether the last heartbeat is within staleAfter of now.
func (c *Courier) IsActive(now time.Time, staleAfter time.Duration) bool {
	return now.Sub(c.lastHeartbeat) <= staleAfter
}

// CanAccept reports whether the courier may take o right now: it must be
// available, below its order maximum and have room for the order's weight.
func (c *Courier) CanAccept(o *order.Order) bool {
	if o.Validate() != nil {
		return false
	}
	return c.status == Available &&
		len(c.heldOrders) < c.maxOrders &&
		c.CurrentWeight()+o.Weight() <= c.maxCapacity
}

// Accept assigns o to the courier. The courier turns Busy when it reaches its
// order maximum.
func (c *Courier) Accept(o *order.Order, at time.Time) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if !c.CanAccept(o) {
		return fmt.Errorf("%w: courier %d, order %d", ErrCannotAcceptOrder, c.id, o.ID())
	}

	held, err := NewHeldOrder(o.ID(), o.Weight())
	if err != nil {
		return err
	}
	if err := o.Assign(c.id, at); err != nil {
		return err
	}

	c.heldOrders = append(c.heldOrders, held)
	if len(c.heldOrders) >= c.maxOrders {
		c.status = Busy
	}
	return nil
}

// CompleteOrder marks o delivered and drops it from the bag. A courier below
// its maximum becomes Available again unless it is in an emergency.
func (c *Courier) CompleteOrder(o *order.Order, at time.Time) error {
	if err := o.Validate(); err != nil {
		return err
	}

	idx := c.indexOf(o.ID())
	if idx < 0 {
		return fmt.Errorf("%w: courier %d, order %d", ErrOrderNotHeld, c.id, o.ID())
	}
	if err := o.Deliver(at); err != nil {
		return err
	}

	c.removeAt(idx)
	if len(c.heldOrders) < c.maxOrders && c.status != Emergency {
		c.status = Available
	}
	return nil
}

// ReleaseOrder drops orderID from the bag without delivering it, as done for
// cancellations. It reports whether the order was held.
func (c *Courier) ReleaseOrder(orderID int64) bool {
	idx := c.indexOf(orderID)
	if idx < 0 {
		return false
	}

	c.removeAt(idx)
	if c.status == Busy && len(c.heldOrders) < c.maxOrders {
		c.status = Available
	}
	return true
}

// DeclareEmergency takes the courier out of service and empties its bag. The
// returned IDs must be reverted to pending by the caller.
func (c *Courier) DeclareEmergency() []int64 {
	released := c.HeldOrderIDs()
	c.heldOrders = nil
	c.status = Emergency
	return released
}

// MarkOffline sets the courier offline. Held orders stay with it.
func (c *Courier) MarkOffline() {
	c.status = Offline
}

// Heartbeat carries the fields of a courier status report. Nil fields keep
// their current value, except Status which defaults to Available.
type Heartbeat struct {
	Location  kernel.Location
	Status    *Status
	Transport *TransportType
	Name      string
	At        time.Time
}

// ApplyHeartbeat records a status report. A courier at its order maximum that
// reports itself available stays Busy. Reporting an emergency while holding
// orders fails with ErrEmergencyMustBeDeclared, since the orders have to be
// reverted through DeclareEmergency. Nothing changes if any field is invalid.
func (c *Courier) ApplyHeartbeat(hb Heartbeat) error {
	status := Available
	if hb.Status != nil {
		status = *hb.Status
	}
	if status == Available && len(c.heldOrders) >= c.maxOrders {
		status = Busy
	}
	if status == Emergency && len(c.heldOrders) > 0 {
		return fmt.Errorf("%w: courier %d", ErrEmergencyMustBeDeclared, c.id)
	}
	transport := c.transport
	if hb.Transport != nil {
		transport = *hb.Transport
	}
	name := c.name
	if hb.Name != "" {
		name = hb.Name
	}

	next := *c
	if err := errors.Join(
		next.setLocation(hb.Location),
		next.setStatus(status),
		next.setTransport(transport),
		next.setName(name),
	); err != nil {
		return err
	}

	c.location = next.location
	c.status = next.status
	c.transport = next.transport
	c.name = next.name
	c.lastHeartbeat = hb.At
	return nil
}

// CalculateTimeToLocation returns the travel time to target in minutes at the
// transport's speed, without traffic.
func (c *Courier) CalculateTimeToLocation(target kernel.Location) (float64, error) {
	speed := c.transport.Speed()
	if speed <= 0 {
		return 0, ErrSpeedIsRequired
	}

	distance, err := c.location.DistanceKm(target)
	if err != nil {
		return 0, err
	}

	return distance / speed * 60, nil
}

func (c *Courier) indexOf(orderID int64) int {
	for i, h := range c.heldOrders {
		if h.orderID == orderID {
			return i
		}
	}
	return -1
}

func (c *Courier) removeAt(idx int) {
	c.heldOrders = append(c.heldOrders[:idx:idx], c.heldOrders[idx+1:]...)
}

func (c *Courier) setID(id int64) error {
	if id <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("id", fmt.Errorf("%d is not greater than 0", id))
	}
	c.id = id
	return nil
}

func (c *Courier) setName(name string) error {
	if name == "" {
		return ErrNameIsRequired
	}
	c.name = name
	return nil
}

func (c *Courier) setTransport(transport TransportType) error {
	if err := transport.Validate(); err != nil {
		return err
	}
	if transport.Speed() <= 0 {
		return ErrSpeedIsRequired
	}
	c.transport = transport
	return nil
}

func (c *Courier) setLocation(location kernel.Location) error {
	if err := location.Validate(); err != nil {
		return err
	}
	c.location = location
	return nil
}

func (c *Courier) setMaxCapacity(maxCapacity float64) error {
	if !(maxCapacity > 0) {
		return errs.NewValueIsInvalidErrorWithCause(
			"max_capacity", fmt.Errorf("%g is not greater than 0", maxCapacity))
	}
	c.maxCapacity = maxCapacity
	return nil
}

func (c *Courier) setMaxOrders(maxOrders int) error {
	if maxOrders <= 0 {
		return errs.NewValueIsInvalidErrorWithCause(
			"max_orders", fmt.Errorf("%d is not greater than 0", maxOrders))
	}
	c.maxOrders = maxOrders
	return nil
}

func (c *Courier) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	c.status = status
	return nil
}

func (c *Courier) setHeldOrders(held []HeldOrder) error {
	if len(held) > c.maxOrders {
		return errs.NewValueIsOutOfRangeError("held_orders", len(held), 0, c.maxOrders)
	}

	var total float64
	for _, h := range held {
		if h.orderID <= 0 {
			return errs.NewValueIsInvalidError("held_orders")
		}
		total += h.weight
	}
	if total > c.maxCapacity {
		return errs.NewValueIsOutOfRangeError("current_weight", total, 0, c.maxCapacity)
	}
	if c.status == Emergency && len(held) > 0 {
		return errs.NewValueIsInvalidErrorWithCause("held_orders", errors.New("courier in emergency holds orders"))
	}

	c.heldOrders = make([]HeldOrder, len(held))
	copy(c.heldOrders, held)
	return nil
}
