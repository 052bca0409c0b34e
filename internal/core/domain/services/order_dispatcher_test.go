package services_test

import (
	"testing"
	"time"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func mustCourier(t *testing.T, id int64, transport courier.TransportType, lat, lon, capacity float64) *courier.Courier {
	t.Helper()
	c, err := courier.NewCourier(id, "courier", transport, kernel.MustNewLocation(lat, lon), capacity, 5, t0)
	require.NoError(t, err)
	return c
}

func mustOrder(t *testing.T, id int64, p order.Priority, weight float64, createdAt time.Time) *order.Order {
	t.Helper()
	o, err := order.NewOrder(id, kernel.MustNewLocation(0.3, 0.4), weight, p, "", "", createdAt)
	require.NoError(t, err)
	return o
}

func TestOrderDispatcher_Score(t *testing.T) {
	d := services.NewOrderDispatcher()
	// 55.5 km by car at 30 km/h is 111 minutes.
	tests := []struct {
		name      string
		priority  order.Priority
		factor    float64
		load      float64
		wantETA   float64
		wantScore float64
	}{
		{"normal priority", order.PriorityNormal, 1.0, 0, 111, 111},
		{"high priority bonus", order.PriorityHigh, 1.0, 0, 111, 61},
		{"low priority penalty", order.PriorityLow, 1.0, 0, 111, 131},
		{"carried weight penalty", order.PriorityNormal, 1.0, 10, 111, 112},
		{"blocked roads triple the eta", order.PriorityNormal, 3.0, 0, 333, 333},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := mustCourier(t, 1, courier.Car, 0, 0, 100)
			if tt.load > 0 {
				require.NoError(t, c.Accept(mustOrder(t, 99, order.PriorityNormal, tt.load, t0), t0))
			}

			eta, score, err := d.Score(c, mustOrder(t, 1, tt.priority, 1, t0), tt.factor)

			require.NoError(t, err)
			assert.InDelta(t, tt.wantETA, eta, 1e-6)
			assert.InDelta(t, tt.wantScore, score, 1e-6)
		})
	}
}

func TestEstimateDeliveryMinutes_ScalesWithTraffic(t *testing.T) {
	c := mustCourier(t, 1, courier.Bicycle, 0, 0, 20)
	o := mustOrder(t, 1, order.PriorityNormal, 1, t0)

	normal, err := services.EstimateDeliveryMinutes(c, o, 1.0)
	require.NoError(t, err)
	blocked, err := services.EstimateDeliveryMinutes(c, o, 3.0)
	require.NoError(t, err)

	assert.InDelta(t, 3*normal, blocked, 1e-9)
}

func TestQueueOrder(t *testing.T) {
	early := mustOrder(t, 1, order.PriorityLow, 1, t0)
	normal := mustOrder(t, 2, order.PriorityNormal, 1, t0.Add(time.Second))
	lateHigh := mustOrder(t, 3, order.PriorityHigh, 1, t0.Add(time.Minute))
	sameTimeA := mustOrder(t, 4, order.PriorityNormal, 1, t0.Add(2*time.Second))
	sameTimeB := mustOrder(t, 5, order.PriorityNormal, 1, t0.Add(2*time.Second))

	queue := services.QueueOrder([]*order.Order{early, normal, sameTimeB, sameTimeA, lateHigh})

	ids := make([]int64, 0, len(queue))
	for _, o := range queue {
		ids = append(ids, o.ID())
	}
	// low and normal share a class and sort by time; ties keep input order.
	assert.Equal(t, []int64{3, 1, 2, 5, 4}, ids)
}

func TestOrderDispatcher_AssignPending(t *testing.T) {
	d := services.NewOrderDispatcher()

	t.Run("picks the courier with the lowest score", func(t *testing.T) {
		// Given
		far := mustCourier(t, 1, courier.Car, 1, 1, 50)
		near := mustCourier(t, 2, courier.Car, 0.3, 0.3, 50)
		o := mustOrder(t, 10, order.PriorityNormal, 2, t0)

		// When
		made, err := d.AssignPending([]*order.Order{o}, []*courier.Courier{far, near}, 1.0, t0)

		// Then
		require.NoError(t, err)
		require.Len(t, made, 1)
		assert.Equal(t, int64(2), made[0].CourierID())
		assert.Equal(t, int64(10), made[0].OrderID())
		assert.Equal(t, order.Assigned, o.Status())
		assert.Equal(t, []int64{10}, near.HeldOrderIDs())
		assert.Empty(t, far.HeldOrders())
	})

	t.Run("ties go to the first courier", func(t *testing.T) {
		first := mustCourier(t, 1, courier.Car, 0, 0, 50)
		second := mustCourier(t, 2, courier.Car, 0, 0, 50)
		o := mustOrder(t, 10, order.PriorityNormal, 2, t0)

		made, err := d.AssignPending([]*order.Order{o}, []*courier.Courier{first, second}, 1.0, t0)

		require.NoError(t, err)
		require.Len(t, made, 1)
		assert.Equal(t, int64(1), made[0].CourierID())
	})

	t.Run("high priority claims scarce capacity first", func(t *testing.T) {
		// Given one courier that fits only one of two orders
		c := mustCourier(t, 1, courier.Bicycle, 0, 0, 10)
		normal := mustOrder(t, 1, order.PriorityNormal, 8, t0)
		high := mustOrder(t, 2, order.PriorityHigh, 8, t0.Add(time.Hour))

		// When
		made, err := d.AssignPending([]*order.Order{normal, high}, []*courier.Courier{c}, 1.0, t0)

		// Then
		require.NoError(t, err)
		require.Len(t, made, 1)
		assert.Equal(t, order.Assigned, high.Status())
		assert.Equal(t, order.Pending, normal.Status())
	})

	t.Run("never exceeds capacity or order count", func(t *testing.T) {
		c := mustCourier(t, 1, courier.Car, 0, 0, 10)
		var pending []*order.Order
		for i := range 8 {
			pending = append(pending, mustOrder(t, int64(i+1), order.PriorityNormal, 1.5, t0.Add(time.Duration(i)*time.Second)))
		}

		made, err := d.AssignPending(pending, []*courier.Courier{c}, 1.0, t0)

		require.NoError(t, err)
		assert.Len(t, made, 5)
		assert.LessOrEqual(t, c.CurrentWeight(), c.MaxCapacity())
		assert.Len(t, c.HeldOrders(), 5)
		assert.Equal(t, courier.Busy, c.Status())
	})

	t.Run("spreads load through the weight penalty", func(t *testing.T) {
		// Same location; after the first order the loaded courier scores worse.
		a := mustCourier(t, 1, courier.Car, 0, 0, 100)
		b := mustCourier(t, 2, courier.Car, 0, 0, 100)
		first := mustOrder(t, 1, order.PriorityNormal, 20, t0)
		second := mustOrder(t, 2, order.PriorityNormal, 20, t0.Add(time.Second))

		made, err := d.AssignPending([]*order.Order{first, second}, []*courier.Courier{a, b}, 1.0, t0)

		require.NoError(t, err)
		require.Len(t, made, 2)
		assert.Equal(t, int64(1), made[0].CourierID())
		assert.Equal(t, int64(2), made[1].CourierID())
	})

	t.Run("no eligible courier leaves orders pending", func(t *testing.T) {
		c := mustCourier(t, 1, courier.Foot, 0, 0, 10)
		c.MarkOffline()
		o := mustOrder(t, 1, order.PriorityHigh, 1, t0)

		made, err := d.AssignPending([]*order.Order{o}, []*courier.Courier{c}, 1.0, t0)

		require.NoError(t, err)
		assert.Empty(t, made)
		assert.Equal(t, order.Pending, o.Status())
	})

	t.Run("skips orders that are no longer pending", func(t *testing.T) {
		c := mustCourier(t, 1, courier.Car, 0, 0, 50)
		o := mustOrder(t, 1, order.PriorityNormal, 1, t0)
		require.NoError(t, o.Cancel())

		made, err := d.AssignPending([]*order.Order{o}, []*courier.Courier{c}, 1.0, t0)

		require.NoError(t, err)
		assert.Empty(t, made)
	})
}

func TestOrderDispatcher_Dispatch_NoCouriers(t *testing.T) {
	_, err := services.NewOrderDispatcher().Dispatch(mustOrder(t, 1, order.PriorityNormal, 1, t0), nil, 1.0, t0)

	require.ErrorIs(t, err, services.ErrCourierNotFound)
}
