// Package memory keeps the live dispatch state in process memory behind a
// single lock. The unit of work takes the lock on Begin and releases it on
// Commit or Rollback, which makes every command handler one exclusive section.
package memory

import (
	"sync"

	"dispatch/internal/core/domain/model/traffic"
)

// Store owns the committed state. Aggregates are kept as DTOs so nothing
// outside an open unit of work can hold a live pointer into it.
type Store struct {
	mu sync.Mutex

	couriers     map[int64]courierDTO
	courierOrder []int64

	orders     map[int64]orderDTO
	orderOrder []int64

	assignments []assignmentDTO

	traffic *traffic.State
}

func NewStore(trafficState *traffic.State) *Store {
	if trafficState == nil {
		trafficState = traffic.NewState(traffic.Normal)
	}
	return &Store{
		couriers: make(map[int64]courierDTO),
		orders:   make(map[int64]orderDTO),
		traffic:  trafficState,
	}
}
