package entity

import "time"

// StockEntry is the on-hand quantity for a (product, location, batch) triple.
// Unique per triple; created on first inbound, never deleted, quantity may
// reach zero but never goes negative.
type StockEntry struct {
	ID          int
	ProductID   int
	LocationID  int
	Quantity    int
	BatchNumber *string
	LastUpdated time.Time
}

// PickableStock is a stock row joined with its location and product names,
// read under a row lock for outbound allocation. Rows are ordered by
// location code ascending, then last update ascending.
type PickableStock struct {
	StockID      int
	Quantity     int
	LocationID   int
	LocationCode string
	ProductName  string
}

// StockSummary aggregates a product's quantity across locations and batches.
// Locations is a comma-separated list of location codes holding the product.
type StockSummary struct {
	ProductName   string
	TotalQuantity int
	Locations     string
}

// LocationItem is one product held at a location.
type LocationItem struct {
	ProductName string
	Quantity    int
}
