package kernel

import (
	"errors"
	"fmt"
	"math"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

const (
	LatitudeMin  = -90.0
	LatitudeMax  = 90.0
	LongitudeMin = -180.0
	LongitudeMax = 180.0

	// KilometersPerDegree converts a planar degree delta into kilometers.
	KilometersPerDegree = 111.0
)

// ErrLocationIsNotConstructed is returned when a zero-value Location is used.
var ErrLocationIsNotConstructed = errs.NewValueIsRequiredError(
	"location must be created via NewLocation")

// Location is a point on the map expressed in decimal degrees.
//
// Location is an immutable value object. Both coordinates are range checked
// at construction, so any Location that passes Validate can be fed into
// DistanceKm without further checks.
//
// Example:
//
//	loc, err := kernel.NewLocation(55.751244, 37.618423)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(loc) // Location(55.751244,37.618423)
type Location struct { //nolint:recvcheck //setters need pointer receivers
	lat   float64
	lon   float64
	guard guard.ConstructorGuard
}

// NewLocation creates a Location from a latitude and a longitude.
//
// Returns a joined error describing every coordinate that is out of range
// or not a finite number.
func NewLocation(lat, lon float64) (Location, error) {
	loc := Location{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(loc.setLat(lat), loc.setLon(lon)); err != nil {
		return Location{}, err
	}

	return loc, nil
}

// MustNewLocation is NewLocation for literals known to be valid (seed data, tests).
// It panics on invalid input.
func MustNewLocation(lat, lon float64) Location {
	loc, err := NewLocation(lat, lon)
	if err != nil {
		panic(err)
	}
	return loc
}

// Validate reports whether the Location was built by NewLocation.
func (l Location) Validate() error {
	return l.guard.Validate(ErrLocationIsNotConstructed)
}

// Lat returns the latitude in degrees.
func (l Location) Lat() float64 {
	return l.lat
}

// Lon returns the longitude in degrees.
func (l Location) Lon() float64 {
	return l.lon
}

// Pair returns the location as the [lat, lon] pair used on the wire.
func (l Location) Pair() [2]float64 {
	return [2]float64{l.lat, l.lon}
}

func (l Location) String() string {
	return fmt.Sprintf("Location(%g,%g)", l.lat, l.lon)
}

// IsEqual compares two locations coordinate by coordinate.
// Both locations must be constructed.
func (l Location) IsEqual(other Location) (bool, error) {
	if err := errors.Join(l.Validate(), other.Validate()); err != nil {
		return false, err
	}

	return l.lat == other.lat && l.lon == other.lon, nil
}

// DistanceKm returns the straight-line distance to other in kilometers.
//
// The degree deltas are treated as planar and scaled by KilometersPerDegree:
//
//	sqrt(dLat^2 + dLon^2) * 111
//
// This ignores earth curvature and longitude compression; it is accurate
// enough at city scale and is the same formula every ETA in the service uses.
//
// Example:
//
//	a := kernel.MustNewLocation(0, 0)
//	b := kernel.MustNewLocation(0.3, 0.4)
//	d, _ := a.DistanceKm(b) // 55.5
func (l Location) DistanceKm(other Location) (float64, error) {
	if err := errors.Join(l.Validate(), other.Validate()); err != nil {
		return 0, err
	}

	dLat := l.lat - other.lat
	dLon := l.lon - other.lon
	return math.Sqrt(dLat*dLat+dLon*dLon) * KilometersPerDegree, nil
}

func (l *Location) setLat(lat float64) error {
	if math.IsNaN(lat) || lat < LatitudeMin || lat > LatitudeMax {
		return errs.NewValueIsOutOfRangeError("lat", lat, LatitudeMin, LatitudeMax)
	}

	l.lat = lat
	return nil
}

func (l *Location) setLon(lon float64) error {
	if math.IsNaN(lon) || lon < LongitudeMin || lon > LongitudeMax {
		return errs.NewValueIsOutOfRangeError("lon", lon, LongitudeMin, LongitudeMax)
	}

	l.lon = lon
	return nil
}
