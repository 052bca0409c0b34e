// Package kernel holds the value objects shared by every aggregate of the
// dispatch domain.
//
// The package includes:
//   - Location: a validated latitude/longitude pair with the planar distance
//     approximation used for every travel estimate
//   - UUID: an identifier for records that have no natural key (assignment
//     records, sessions, snapshots)
//
// Both types are immutable values. Their zero values are invalid and fail
// Validate, so a forgotten constructor call surfaces as an error instead of
// a courier standing at (0, 0).
package kernel
