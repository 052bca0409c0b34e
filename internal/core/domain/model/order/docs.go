// Package order models a delivery order and its lifecycle.
//
// An order is created pending, becomes assigned when a courier accepts it and
// ends delivered or cancelled. An emergency on the holding courier reverts it
// to pending so the next assignment sweep can hand it to someone else:
//
//	pending --Assign--> assigned --Deliver--> delivered
//	   ^                   |
//	   +------Revert-------+
//	pending|assigned --Cancel--> cancelled
//
// The assigned courier ID is set exactly while the order is assigned. Once
// delivered, the courier that completed it is kept in DeliveredBy.
package order
