package memory

import (
	"context"
	"slices"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
)

type orderRepository struct {
	uow *UnitOfWork
}

func (r *orderRepository) Add(_ context.Context, o *order.Order) error {
	if err := r.uow.ensureActive(); err != nil {
		return err
	}
	if err := o.Validate(); err != nil {
		return err
	}
	if r.exists(o.ID()) {
		return errs.NewObjectAlreadyExistsError("orderID", o.ID())
	}

	r.uow.orders[o.ID()] = o
	r.uow.newOrders = append(r.uow.newOrders, o.ID())
	r.uow.dirtyOrder[o.ID()] = struct{}{}
	return nil
}

func (r *orderRepository) Update(_ context.Context, o *order.Order) error {
	if err := r.uow.ensureActive(); err != nil {
		return err
	}
	if err := o.Validate(); err != nil {
		return err
	}
	if !r.exists(o.ID()) {
		return errs.NewObjectNotFoundError("orderID", o.ID())
	}

	r.uow.orders[o.ID()] = o
	r.uow.dirtyOrder[o.ID()] = struct{}{}
	return nil
}

func (r *orderRepository) Get(_ context.Context, id int64) (*order.Order, error) {
	if err := r.uow.ensureActive(); err != nil {
		return nil, err
	}
	return r.load(id)
}

func (r *orderRepository) GetAll(_ context.Context) ([]*order.Order, error) {
	if err := r.uow.ensureActive(); err != nil {
		return nil, err
	}

	ids := slices.Concat(r.uow.store.orderOrder, r.uow.newOrders)
	out := make([]*order.Order, 0, len(ids))
	for _, id := range ids {
		o, err := r.load(id)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

func (r *orderRepository) GetAllPending(ctx context.Context) ([]*order.Order, error) {
	all, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return slices.DeleteFunc(all, func(o *order.Order) bool {
		return !o.IsPending()
	}), nil
}

func (r *orderRepository) exists(id int64) bool {
	if _, ok := r.uow.orders[id]; ok {
		return true
	}
	_, ok := r.uow.store.orders[id]
	return ok
}

func (r *orderRepository) load(id int64) (*order.Order, error) {
	if o, ok := r.uow.orders[id]; ok {
		return o, nil
	}

	dto, ok := r.uow.store.orders[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("orderID", id)
	}
	o, err := orderToDomain(dto)
	if err != nil {
		return nil, err
	}
	r.uow.orders[id] = o
	return o, nil
}
