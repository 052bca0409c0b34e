// Package errs provides the typed errors shared by the dispatch service.
//
// Every error type follows the same pattern:
//   - a sentinel variable (e.g. ErrObjectNotFound) usable with errors.Is
//   - a struct carrying the parameter name and details
//   - constructors with and without a cause
//   - Error() for a single-line message and Unwrap() returning the sentinel
//
// Callers classify failures by sentinel: the coordinator, for example, logs
// ErrObjectNotFound as a warning and leaves state untouched, while the HTTP
// adapter maps it to 404.
package errs
