package services

import (
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/order"
)

// EstimateDeliveryMinutes is the travel time in minutes from the courier's
// current location to the order's destination, scaled by the traffic factor.
func EstimateDeliveryMinutes(c *courier.Courier, o *order.Order, trafficFactor float64) (float64, error) {
	minutes, err := c.CalculateTimeToLocation(o.Destination())
	if err != nil {
		return 0, err
	}
	return minutes * trafficFactor, nil
}
