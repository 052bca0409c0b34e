package guard_test

import (
	"errors"
	"testing"

	"dispatch/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorGuard_Validate(t *testing.T) {
	t.Run("constructed_guard_returns_nil", func(t *testing.T) {
		// Given
		g := guard.NewConstructorGuard()

		// When
		err := g.Validate(errors.New("not constructed"))

		// Then
		require.NoError(t, err)
	})

	t.Run("zero_value_returns_given_error", func(t *testing.T) {
		// Given
		var g guard.ConstructorGuard
		expected := errors.New("courier must be created via NewCourier")

		// When
		err := g.Validate(expected)

		// Then
		assert.Equal(t, expected, err)
	})

	t.Run("zero_value_falls_back_to_default_error", func(t *testing.T) {
		var g guard.ConstructorGuard

		err := g.Validate(nil)

		assert.Equal(t, guard.ErrDefaultConstructorGuard, err)
		assert.Equal(t, "object must be created via its constructor", err.Error())
	})
}

func TestConstructorGuard_EmbeddedInEntity(t *testing.T) {
	type shipment struct {
		guard  guard.ConstructorGuard
		weight float64
	}
	errNotConstructed := errors.New("shipment must be created via newShipment")

	newShipment := func(weight float64) (shipment, error) {
		if weight <= 0 {
			return shipment{}, errors.New("weight must be positive")
		}
		return shipment{guard: guard.NewConstructorGuard(), weight: weight}, nil
	}

	t.Run("constructor_output_is_valid", func(t *testing.T) {
		s, err := newShipment(2.5)

		require.NoError(t, err)
		require.NoError(t, s.guard.Validate(errNotConstructed))
	})

	t.Run("copies_keep_the_flag", func(t *testing.T) {
		s, err := newShipment(1)
		require.NoError(t, err)

		copied := s

		require.NoError(t, copied.guard.Validate(errNotConstructed))
	})

	t.Run("literal_is_rejected", func(t *testing.T) {
		s := shipment{weight: 3}

		assert.Equal(t, errNotConstructed, s.guard.Validate(errNotConstructed))
	})
}

func BenchmarkConstructorGuard_Validate(b *testing.B) {
	g := guard.NewConstructorGuard()
	err := errors.New("not constructed")
	b.ResetTimer()
	for range b.N {
		_ = g.Validate(err)
	}
}
