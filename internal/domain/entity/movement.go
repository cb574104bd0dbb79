package entity

import "time"

// InboundRecord is an append-only audit row for a completed inbound.
type InboundRecord struct {
	ID         int
	ProductID  int
	Quantity   int
	OccurredAt time.Time
	Supplier   string
	ReceivedBy string
}

// OutboundRecord is an append-only audit row for a completed outbound.
type OutboundRecord struct {
	ID         int
	ProductID  int
	Quantity   int
	OccurredAt time.Time
	Customer   string
	ShippedBy  string
}

// MovementHistoryRow is an audit row joined with its product name, as shown
// in history queries.
type MovementHistoryRow struct {
	ProductName  string
	Quantity     int
	OccurredAt   time.Time
	Counterparty string // supplier for inbound, customer for outbound
}
