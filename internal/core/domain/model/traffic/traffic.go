// Package traffic holds the process-wide road condition that scales every
// travel estimate.
package traffic

import (
	"errors"
	"fmt"
	"sync"
)

var ErrInvalidCondition = errors.New("invalid traffic condition")

type Condition int

const (
	Normal Condition = iota
	Busy
	Heavy
	Blocked
)

type conditionProfile struct {
	name        string
	factor      float64
	description string
}

var conditionProfiles = map[Condition]conditionProfile{
	Normal:  {name: "normal", factor: 1.0, description: "Нормальное движение"},
	Busy:    {name: "busy", factor: 1.3, description: "Нагруженное движение"},
	Heavy:   {name: "heavy", factor: 1.7, description: "Пробки"},
	Blocked: {name: "blocked", factor: 3.0, description: "Дорога перекрыта"},
}

// ParseCondition maps a wire name to a Condition.
func ParseCondition(name string) (Condition, error) {
	for c, p := range conditionProfiles {
		if p.name == name {
			return c, nil
		}
	}
	return Normal, fmt.Errorf("%w: %q", ErrInvalidCondition, name)
}

func (c Condition) String() string {
	if p, ok := conditionProfiles[c]; ok {
		return p.name
	}
	return "unknown"
}

// Factor is the ETA multiplier for the condition.
func (c Condition) Factor() float64 {
	if p, ok := conditionProfiles[c]; ok {
		return p.factor
	}
	return 1.0
}

// Description is the human readable label shown to observers.
func (c Condition) Description() string {
	return conditionProfiles[c].description
}

// State is the current condition shared by the whole process. The zero value
// is Normal and ready to use.
type State struct {
	mu        sync.RWMutex
	condition Condition
}

func NewState(initial Condition) *State {
	return &State{condition: initial}
}

// Set replaces the current condition. Any transition is allowed.
func (s *State) Set(c Condition) error {
	if _, ok := conditionProfiles[c]; !ok {
		return fmt.Errorf("%w: %d", ErrInvalidCondition, c)
	}
	s.mu.Lock()
	s.condition = c
	s.mu.Unlock()
	return nil
}

func (s *State) Current() Condition {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.condition
}

func (s *State) Factor() float64 {
	return s.Current().Factor()
}
