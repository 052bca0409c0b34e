package memory

import (
	"context"
	"slices"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/pkg/errs"
)

type courierRepository struct {
	uow *UnitOfWork
}

func (r *courierRepository) Add(_ context.Context, c *courier.Courier) error {
	if err := r.uow.ensureActive(); err != nil {
		return err
	}
	if err := c.Validate(); err != nil {
		return err
	}
	if r.exists(c.ID()) {
		return errs.NewObjectAlreadyExistsError("courierID", c.ID())
	}

	r.uow.couriers[c.ID()] = c
	r.uow.newCouriers = append(r.uow.newCouriers, c.ID())
	r.uow.dirtyCourier[c.ID()] = struct{}{}
	return nil
}

func (r *courierRepository) Update(_ context.Context, c *courier.Courier) error {
	if err := r.uow.ensureActive(); err != nil {
		return err
	}
	if err := c.Validate(); err != nil {
		return err
	}
	if !r.exists(c.ID()) {
		return errs.NewObjectNotFoundError("courierID", c.ID())
	}

	r.uow.couriers[c.ID()] = c
	r.uow.dirtyCourier[c.ID()] = struct{}{}
	return nil
}

func (r *courierRepository) Get(_ context.Context, id int64) (*courier.Courier, error) {
	if err := r.uow.ensureActive(); err != nil {
		return nil, err
	}
	return r.load(id)
}

func (r *courierRepository) GetAll(_ context.Context) ([]*courier.Courier, error) {
	if err := r.uow.ensureActive(); err != nil {
		return nil, err
	}

	ids := slices.Concat(r.uow.store.courierOrder, r.uow.newCouriers)
	out := make([]*courier.Courier, 0, len(ids))
	for _, id := range ids {
		c, err := r.load(id)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *courierRepository) GetAllAvailable(ctx context.Context) ([]*courier.Courier, error) {
	all, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return slices.DeleteFunc(all, func(c *courier.Courier) bool {
		return c.Status() != courier.Available
	}), nil
}

func (r *courierRepository) exists(id int64) bool {
	if _, ok := r.uow.couriers[id]; ok {
		return true
	}
	_, ok := r.uow.store.couriers[id]
	return ok
}

func (r *courierRepository) load(id int64) (*courier.Courier, error) {
	if c, ok := r.uow.couriers[id]; ok {
		return c, nil
	}

	dto, ok := r.uow.store.couriers[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("courierID", id)
	}
	c, err := courierToDomain(dto)
	if err != nil {
		return nil, err
	}
	r.uow.couriers[id] = c
	return c, nil
}
