// Package courier models the people carrying orders.
//
// A Courier is created by its first heartbeat (or by seed data), carries up to
// a configured number of orders whose total weight stays within its capacity
// and reports one of four statuses:
//
//	available  accepts new orders
//	busy       at its order maximum or self-declared busy
//	offline    not reachable, keeps what it already holds
//	emergency  declared unavailable; everything it held went back to pending
//
// Current weight is derived from the held orders, so it can never drift from
// their sum. Courier is not safe for concurrent use; the dispatch engine only
// touches it inside its exclusive section.
package courier
