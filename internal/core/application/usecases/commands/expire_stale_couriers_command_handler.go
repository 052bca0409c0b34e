package commands

import (
	"context"

	"dispatch/internal/core/domain/model/courier"
)

// ExpireStaleCouriersCommandHandler sets stale available and busy couriers
// offline. Couriers in an emergency keep that status.
type ExpireStaleCouriersCommandHandler struct {
	uowFactory CourierUoWFactory
}

func NewExpireStaleCouriersCommandHandler(uowFactory CourierUoWFactory) ExpireStaleCouriersCommandHandler {
	return ExpireStaleCouriersCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle returns the IDs of the couriers it marked offline.
func (h ExpireStaleCouriersCommandHandler) Handle(
	ctx context.Context,
	command ExpireStaleCouriersCommand,
) ([]int64, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	courierRepo := uow.CourierRepository()
	couriers, err := courierRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	var expired []int64
	for _, c := range couriers {
		if c.Status() != courier.Available && c.Status() != courier.Busy {
			continue
		}
		if c.IsActive(command.now, command.staleAfter) {
			continue
		}

		c.MarkOffline()
		if err := courierRepo.Update(ctx, c); err != nil {
			return nil, err
		}
		expired = append(expired, c.ID())
	}

	if err := uow.Commit(ctx); err != nil {
		return nil, err
	}

	return expired, nil
}
