package services

import (
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/order"
)

// Statistics summarises the engine state for observers.
type Statistics struct {
	TotalOrders      int
	DeliveredOrders  int
	InProgressOrders int
	PendingOrders    int
	CancelledOrders  int
	// CourierUtilization is the share of non-offline couriers that are busy
	// or in an emergency, in percent.
	CourierUtilization float64
	// AverageDeliveryMinutes is the mean assignment-to-delivery time of
	// delivered orders, 0 when none are delivered.
	AverageDeliveryMinutes float64
}

func CalculateStatistics(orders []*order.Order, couriers []*courier.Courier) Statistics {
	var (
		stats     Statistics
		delivered int
		total     float64
	)

	stats.TotalOrders = len(orders)
	for _, o := range orders {
		switch o.Status() {
		case order.Delivered:
			stats.DeliveredOrders++
			if d, ok := o.DeliveryDuration(); ok {
				total += d.Minutes()
				delivered++
			}
		case order.Assigned:
			stats.InProgressOrders++
		case order.Pending:
			stats.PendingOrders++
		case order.Cancelled:
			stats.CancelledOrders++
		}
	}
	if delivered > 0 {
		stats.AverageDeliveryMinutes = total / float64(delivered)
	}

	var occupied, reachable int
	for _, c := range couriers {
		switch c.Status() {
		case courier.Offline:
			continue
		case courier.Busy, courier.Emergency:
			occupied++
		}
		reachable++
	}
	if reachable > 0 {
		stats.CourierUtilization = float64(occupied) / float64(reachable) * 100
	}

	return stats
}
