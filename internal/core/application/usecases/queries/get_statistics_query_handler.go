package queries

import (
	"context"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/services"
)

type GetStatisticsQueryHandler struct {
	uowFactory ReadUoWFactory
}

func NewGetStatisticsQueryHandler(uowFactory ReadUoWFactory) GetStatisticsQueryHandler {
	return GetStatisticsQueryHandler{uowFactory: uowFactory}
}

func (h GetStatisticsQueryHandler) Handle(ctx context.Context, query GetStatisticsQuery) (StatisticsView, error) {
	if err := query.Validate(); err != nil {
		return StatisticsView{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return StatisticsView{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	couriers, err := uow.CourierRepository().GetAll(ctx)
	if err != nil {
		return StatisticsView{}, err
	}
	orders, err := uow.OrderRepository().GetAll(ctx)
	if err != nil {
		return StatisticsView{}, err
	}

	active := make([]*courier.Courier, 0, len(couriers))
	for _, c := range couriers {
		if c.IsActive(query.now, query.staleAfter) {
			active = append(active, c)
		}
	}

	return NewStatisticsView(services.CalculateStatistics(orders, active)), nil
}
