package courier

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

type TransportType int

const (
	TransportUnknown TransportType = iota
	Foot
	Bicycle
	Car
	Motorcycle
)

type transportProfile struct {
	name string
	// speed in km/h
	speed float64
	// capacity in kg, used when seed data omits max_capacity
	capacity float64
}

var transportProfiles = map[TransportType]transportProfile{
	Foot:       {name: "foot", speed: 5, capacity: 10},
	Bicycle:    {name: "bicycle", speed: 15, capacity: 20},
	Car:        {name: "car", speed: 30, capacity: 100},
	Motorcycle: {name: "motorcycle", speed: 40, capacity: 30},
}

func ParseTransportType(s string) (TransportType, error) {
	for t, p := range transportProfiles {
		if p.name == s {
			return t, nil
		}
	}
	return TransportUnknown, errs.NewValueIsInvalidErrorWithCause(
		"transport_type", fmt.Errorf("%q is not a transport type", s))
}

func (t TransportType) String() string {
	if p, ok := transportProfiles[t]; ok {
		return p.name
	}
	return "unknown"
}

// Speed returns the travel speed in km/h, 0 for unknown transport.
func (t TransportType) Speed() float64 {
	return transportProfiles[t].speed
}

// DefaultCapacity returns the typical carrying capacity in kg for the transport.
func (t TransportType) DefaultCapacity() float64 {
	return transportProfiles[t].capacity
}

func (t TransportType) Validate() error {
	if _, ok := transportProfiles[t]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("transport_type", fmt.Errorf("%d is not a valid transport", t))
	}
	return nil
}
