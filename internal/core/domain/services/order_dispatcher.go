package services

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"time"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/order"
)

// ErrCourierNotFound is returned when no courier can accept the order.
var ErrCourierNotFound = errors.New("courier not found")

// WeightPenalty is added to a courier's score per kilogram it already carries,
// nudging work towards emptier couriers.
const WeightPenalty = 0.1

var priorityBonus = map[order.Priority]float64{
	order.PriorityHigh:   -50,
	order.PriorityNormal: 0,
	order.PriorityLow:    20,
}

// PriorityBonus returns the score adjustment for a priority. Lower scores win,
// so high priority orders pull the best courier harder.
func PriorityBonus(p order.Priority) float64 {
	return priorityBonus[p]
}

// OrderDispatcher assigns pending orders to couriers with a single greedy
// pass. It is not globally optimal: each order, in queue order, takes the
// courier with the lowest score at that moment.
//
// Score of courier c for order o:
//
//	eta(c, o) * trafficFactor + PriorityBonus(o.priority) + WeightPenalty * c.currentWeight
//
// Business rules:
//   - only couriers passing CanAccept on their live state are considered
//   - the strictly lowest score wins; on ties the first courier in the
//     given slice keeps the order
//   - an order with no eligible courier stays pending
//
// Example usage:
//
//	d := services.NewOrderDispatcher()
//	made, err := d.AssignPending(pending, couriers, trafficState.Factor(), time.Now())
type OrderDispatcher struct{}

func NewOrderDispatcher() OrderDispatcher {
	return OrderDispatcher{}
}

// QueueOrder sorts orders into dispatch order: high priority first, then by
// creation time. The sort is stable, so equal keys keep the caller's
// (insertion) order.
func QueueOrder(orders []*order.Order) []*order.Order {
	queue := slices.Clone(orders)
	slices.SortStableFunc(queue, func(a, b *order.Order) int {
		aHigh, bHigh := a.Priority() == order.PriorityHigh, b.Priority() == order.PriorityHigh
		if aHigh != bHigh {
			if aHigh {
				return -1
			}
			return 1
		}
		return a.CreatedAt().Compare(b.CreatedAt())
	})
	return queue
}

// AssignPending runs one sweep over the pending orders and returns the
// assignments it made, in the order they were made.
//
// Non-pending entries in pending are skipped. Any error other than "no
// courier" aborts the sweep; the caller discards the partial result.
func (d OrderDispatcher) AssignPending(
	pending []*order.Order,
	couriers []*courier.Courier,
	trafficFactor float64,
	at time.Time,
) ([]assignment.Assignment, error) {
	var made []assignment.Assignment

	for _, o := range QueueOrder(pending) {
		if !o.IsPending() {
			continue
		}

		a, err := d.Dispatch(o, couriers, trafficFactor, at)
		if errors.Is(err, ErrCourierNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("dispatch order %d: %w", o.ID(), err)
		}
		made = append(made, a)
	}

	return made, nil
}

// Dispatch gives a single pending order to the best scoring courier.
func (d OrderDispatcher) Dispatch(
	o *order.Order,
	couriers []*courier.Courier,
	trafficFactor float64,
	at time.Time,
) (assignment.Assignment, error) {
	if err := o.Validate(); err != nil {
		return assignment.Assignment{}, err
	}

	best, eta, score, err := d.findBestCourier(o, couriers, trafficFactor)
	if err != nil {
		return assignment.Assignment{}, err
	}

	if err := best.Accept(o, at); err != nil {
		return assignment.Assignment{}, err
	}

	return assignment.NewAssignment(best.ID(), o.ID(), eta, score, at)
}

// Score returns the travel estimate and the score of c for o.
func (d OrderDispatcher) Score(c *courier.Courier, o *order.Order, trafficFactor float64) (eta, score float64, err error) {
	eta, err = EstimateDeliveryMinutes(c, o, trafficFactor)
	if err != nil {
		return 0, 0, err
	}
	return eta, eta + PriorityBonus(o.Priority()) + WeightPenalty*c.CurrentWeight(), nil
}

func (d OrderDispatcher) findBestCourier(
	o *order.Order,
	couriers []*courier.Courier,
	trafficFactor float64,
) (best *courier.Courier, bestETA, bestScore float64, err error) {
	bestScore = math.Inf(1)

	for _, c := range couriers {
		if err := c.Validate(); err != nil {
			return nil, 0, 0, err
		}
		if !c.CanAccept(o) {
			continue
		}

		eta, score, err := d.Score(c, o, trafficFactor)
		if err != nil {
			return nil, 0, 0, err
		}

		// Strict comparison keeps the earlier courier on ties.
		if score < bestScore {
			best, bestETA, bestScore = c, eta, score
		}
	}

	if best == nil {
		return nil, 0, 0, ErrCourierNotFound
	}
	return best, bestETA, bestScore, nil
}
