package memory

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/traffic"
	"dispatch/internal/core/ports"
)

// ErrNoActiveTransaction is returned by Commit, Rollback and repository calls
// outside Begin.
var ErrNoActiveTransaction = errors.New("no active unit of work")

type UnitOfWorkFactory struct {
	store *Store
}

func NewUnitOfWorkFactory(store *Store) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{store: store}
}

func (f *UnitOfWorkFactory) Create() ports.UnitOfWork {
	return &UnitOfWork{store: f.store}
}

// UnitOfWork tracks aggregates loaded or changed during one exclusive
// section. Loaded aggregates live in an identity map, so two Gets of the same
// ID return the same pointer and mutations made through either are seen by
// both. Only aggregates passed to Add or Update are written back on Commit.
type UnitOfWork struct {
	store  *Store
	active bool

	couriers     map[int64]*courier.Courier
	newCouriers  []int64
	dirtyCourier map[int64]struct{}

	orders     map[int64]*order.Order
	newOrders  []int64
	dirtyOrder map[int64]struct{}

	appended []assignment.Assignment
}

func (uow *UnitOfWork) Begin(ctx context.Context) error {
	if uow.active {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	uow.store.mu.Lock()
	uow.active = true
	uow.reset()
	return nil
}

func (uow *UnitOfWork) Commit(_ context.Context) error {
	if !uow.active {
		return ErrNoActiveTransaction
	}

	s := uow.store
	for id := range uow.dirtyCourier {
		s.couriers[id] = courierFromDomain(uow.couriers[id])
	}
	s.courierOrder = append(s.courierOrder, uow.newCouriers...)

	for id := range uow.dirtyOrder {
		s.orders[id] = orderFromDomain(uow.orders[id])
	}
	s.orderOrder = append(s.orderOrder, uow.newOrders...)

	for _, a := range uow.appended {
		s.assignments = append(s.assignments, assignmentFromDomain(a))
	}

	uow.release()
	return nil
}

func (uow *UnitOfWork) Rollback(_ context.Context) error {
	if !uow.active {
		return ErrNoActiveTransaction
	}
	uow.release()
	return nil
}

func (uow *UnitOfWork) CourierRepository() ports.CourierRepository {
	return &courierRepository{uow: uow}
}

func (uow *UnitOfWork) OrderRepository() ports.OrderRepository {
	return &orderRepository{uow: uow}
}

func (uow *UnitOfWork) AssignmentLog() ports.AssignmentLog {
	return &assignmentLog{uow: uow}
}

func (uow *UnitOfWork) Traffic() *traffic.State {
	return uow.store.traffic
}

func (uow *UnitOfWork) reset() {
	uow.couriers = make(map[int64]*courier.Courier)
	uow.newCouriers = nil
	uow.dirtyCourier = make(map[int64]struct{})
	uow.orders = make(map[int64]*order.Order)
	uow.newOrders = nil
	uow.dirtyOrder = make(map[int64]struct{})
	uow.appended = nil
}

func (uow *UnitOfWork) release() {
	uow.reset()
	uow.active = false
	uow.store.mu.Unlock()
}

func (uow *UnitOfWork) ensureActive() error {
	if !uow.active {
		return ErrNoActiveTransaction
	}
	return nil
}
