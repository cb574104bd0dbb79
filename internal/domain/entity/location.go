package entity

import "github.com/shopspring/decimal"

// Location is a storage slot in the warehouse, identified by a code of the
// form <letter>-<2digits>-<2digits> (e.g. A-01-01). CurrentLoad is adjusted
// by ledger operations as quantity × unit price; the original system tracked
// it that way and the behavior is kept unchanged.
type Location struct {
	ID          int
	Code        string
	Zone        string
	Aisle       string
	Shelf       string
	Capacity    decimal.Decimal
	CurrentLoad decimal.Decimal
}
