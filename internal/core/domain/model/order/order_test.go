package order_test

import (
	"testing"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	createdAt   = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	destination = kernel.MustNewLocation(55.753605, 37.621585)
)

func newPendingOrder(t *testing.T) *order.Order {
	t.Helper()
	o, err := order.NewOrder(101, destination, 5.0, order.PriorityHigh, "10:00-12:00", "documents", createdAt)
	require.NoError(t, err)
	return o
}

func TestNewOrder(t *testing.T) {
	t.Run("creates a pending order", func(t *testing.T) {
		o := newPendingOrder(t)

		require.NoError(t, o.Validate())
		assert.Equal(t, int64(101), o.ID())
		assert.Equal(t, destination, o.Destination())
		assert.InDelta(t, 5.0, o.Weight(), 1e-9)
		assert.Equal(t, order.PriorityHigh, o.Priority())
		assert.Equal(t, "10:00-12:00", o.TimeWindow())
		assert.Equal(t, "documents", o.Description())
		assert.Equal(t, order.Pending, o.Status())
		assert.Nil(t, o.CourierID())
		assert.Equal(t, createdAt, o.CreatedAt())
	})

	t.Run("rejects non-positive weight", func(t *testing.T) {
		for _, w := range []float64{0, -2} {
			o, err := order.NewOrder(1, destination, w, order.PriorityNormal, "", "", createdAt)

			require.ErrorIs(t, err, errs.ErrValueIsInvalid)
			assert.Nil(t, o)
			assert.Contains(t, err.Error(), "weight")
		}
	})

	t.Run("joins every validation error", func(t *testing.T) {
		var noLocation kernel.Location

		o, err := order.NewOrder(0, noLocation, -1, order.PriorityUnknown, "", "", time.Time{})

		require.Error(t, err)
		assert.Nil(t, o)
		for _, part := range []string{"id", "location must be created", "weight", "priority", "createdAt"} {
			assert.Contains(t, err.Error(), part)
		}
	})
}

func TestOrder_ZeroValueIsInvalid(t *testing.T) {
	var o order.Order
	require.ErrorIs(t, o.Validate(), order.ErrOrderIsNotConstructed)

	var nilOrder *order.Order
	require.ErrorIs(t, nilOrder.Validate(), order.ErrOrderIsNotConstructed)
}

func TestOrder_Lifecycle(t *testing.T) {
	assignedAt := createdAt.Add(time.Minute)
	deliveredAt := assignedAt.Add(25 * time.Minute)

	t.Run("assign then deliver", func(t *testing.T) {
		// Given
		o := newPendingOrder(t)

		// When
		require.NoError(t, o.Assign(7, assignedAt))

		// Then
		assert.Equal(t, order.Assigned, o.Status())
		require.NotNil(t, o.CourierID())
		assert.Equal(t, int64(7), *o.CourierID())
		assert.Equal(t, assignedAt, o.AssignedAt())

		// When
		require.NoError(t, o.Deliver(deliveredAt))

		// Then
		assert.Equal(t, order.Delivered, o.Status())
		assert.Nil(t, o.CourierID())
		require.NotNil(t, o.DeliveredBy())
		assert.Equal(t, int64(7), *o.DeliveredBy())
		d, ok := o.DeliveryDuration()
		assert.True(t, ok)
		assert.Equal(t, 25*time.Minute, d)
	})

	t.Run("revert clears the courier", func(t *testing.T) {
		o := newPendingOrder(t)
		require.NoError(t, o.Assign(7, assignedAt))

		require.NoError(t, o.Revert())

		assert.Equal(t, order.Pending, o.Status())
		assert.Nil(t, o.CourierID())
		assert.True(t, o.IsPending())
	})

	t.Run("cancel from assigned", func(t *testing.T) {
		o := newPendingOrder(t)
		require.NoError(t, o.Assign(7, assignedAt))

		require.NoError(t, o.Cancel())

		assert.Equal(t, order.Cancelled, o.Status())
		assert.Nil(t, o.CourierID())
	})

	t.Run("invalid transitions are rejected", func(t *testing.T) {
		o := newPendingOrder(t)

		require.ErrorIs(t, o.Deliver(deliveredAt), order.ErrInvalidStatusTransition)
		require.ErrorIs(t, o.Revert(), order.ErrInvalidStatusTransition)

		require.NoError(t, o.Assign(7, assignedAt))
		require.ErrorIs(t, o.Assign(8, assignedAt), order.ErrInvalidStatusTransition)
		require.NoError(t, o.Deliver(deliveredAt))
		require.ErrorIs(t, o.Cancel(), order.ErrInvalidStatusTransition)
		assert.Equal(t, order.Delivered, o.Status())
	})

	t.Run("assign rejects invalid courier id", func(t *testing.T) {
		o := newPendingOrder(t)

		require.ErrorIs(t, o.Assign(0, assignedAt), order.ErrCourierIDIsInvalid)
		assert.Equal(t, order.Pending, o.Status())
	})

	t.Run("courier id is returned as a copy", func(t *testing.T) {
		o := newPendingOrder(t)
		require.NoError(t, o.Assign(7, assignedAt))

		id := o.CourierID()
		*id = 99

		assert.Equal(t, int64(7), *o.CourierID())
	})
}

func TestRestoreOrder(t *testing.T) {
	courierID := int64(3)

	t.Run("restores an assigned order", func(t *testing.T) {
		o, err := order.RestoreOrder(order.RestoreParams{
			ID:          5,
			Destination: destination,
			Weight:      1.5,
			Priority:    order.PriorityLow,
			Status:      order.Assigned,
			CourierID:   &courierID,
			CreatedAt:   createdAt,
			AssignedAt:  createdAt.Add(time.Second),
		})

		require.NoError(t, err)
		assert.Equal(t, order.Assigned, o.Status())
		assert.Equal(t, courierID, *o.CourierID())
	})

	t.Run("rejects a courier on a pending order", func(t *testing.T) {
		_, err := order.RestoreOrder(order.RestoreParams{
			ID:          5,
			Destination: destination,
			Weight:      1.5,
			Priority:    order.PriorityLow,
			Status:      order.Pending,
			CourierID:   &courierID,
			CreatedAt:   createdAt,
		})

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("rejects an assigned order without courier", func(t *testing.T) {
		_, err := order.RestoreOrder(order.RestoreParams{
			ID:          5,
			Destination: destination,
			Weight:      1.5,
			Priority:    order.PriorityLow,
			Status:      order.Assigned,
			CreatedAt:   createdAt,
		})

		require.Error(t, err)
	})
}
