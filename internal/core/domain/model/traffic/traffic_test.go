package traffic_test

import (
	"sync"
	"testing"

	"dispatch/internal/core/domain/model/traffic"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCondition(t *testing.T) {
	tests := []struct {
		name   string
		want   traffic.Condition
		factor float64
	}{
		{"normal", traffic.Normal, 1.0},
		{"busy", traffic.Busy, 1.3},
		{"heavy", traffic.Heavy, 1.7},
		{"blocked", traffic.Blocked, 3.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := traffic.ParseCondition(tt.name)

			require.NoError(t, err)
			assert.Equal(t, tt.want, c)
			assert.InDelta(t, tt.factor, c.Factor(), 1e-9)
			assert.NotEmpty(t, c.Description())
			assert.Equal(t, tt.name, c.String())
		})
	}

	t.Run("unknown", func(t *testing.T) {
		_, err := traffic.ParseCondition("gridlock")
		require.ErrorIs(t, err, traffic.ErrInvalidCondition)
	})
}

func TestState(t *testing.T) {
	t.Run("zero value is normal", func(t *testing.T) {
		var s traffic.State

		assert.Equal(t, traffic.Normal, s.Current())
		assert.InDelta(t, 1.0, s.Factor(), 1e-9)
	})

	t.Run("any transition is allowed", func(t *testing.T) {
		s := traffic.NewState(traffic.Normal)

		require.NoError(t, s.Set(traffic.Blocked))
		assert.InDelta(t, 3.0, s.Factor(), 1e-9)
		require.NoError(t, s.Set(traffic.Busy))
		assert.Equal(t, traffic.Busy, s.Current())
	})

	t.Run("rejects unknown conditions", func(t *testing.T) {
		s := traffic.NewState(traffic.Heavy)

		require.ErrorIs(t, s.Set(traffic.Condition(42)), traffic.ErrInvalidCondition)
		assert.Equal(t, traffic.Heavy, s.Current())
	})

	t.Run("concurrent readers and writers", func(t *testing.T) {
		s := traffic.NewState(traffic.Normal)
		var wg sync.WaitGroup
		for i := range 50 {
			wg.Add(2)
			go func() {
				defer wg.Done()
				_ = s.Set(traffic.Condition(i % 4))
			}()
			go func() {
				defer wg.Done()
				assert.GreaterOrEqual(t, s.Factor(), 1.0)
			}()
		}
		wg.Wait()
	})
}
