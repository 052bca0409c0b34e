// Package services provides the stateless domain services of the dispatch
// engine: travel estimation, the greedy order dispatcher and statistics.
//
// The services operate on aggregates handed to them by the application layer
// and never touch storage or locks themselves; callers run them inside the
// engine's exclusive section.
package services
