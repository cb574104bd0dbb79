package entity

import "github.com/shopspring/decimal"

// Product is a warehouse SKU. Mutable only through administrative edits,
// never by ledger operations.
type Product struct {
	ID          int
	Name        string
	SKU         string
	Description string
	UnitPrice   decimal.Decimal
}
