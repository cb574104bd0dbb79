package dto

import "time"

// StockSummaryDTO per-product aggregate with its location breakdown.
type StockSummaryDTO struct {
	ProductName   string `json:"product_name"`
	TotalQuantity int    `json:"total_quantity"`
	Locations     string `json:"locations"`
}

// LocationItemDTO one product held at a location.
type LocationItemDTO struct {
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
}

// MovementHistoryDTO one inbound or outbound audit row.
type MovementHistoryDTO struct {
	ProductName  string    `json:"product_name"`
	Quantity     int       `json:"quantity"`
	OccurredAt   time.Time `json:"occurred_at"`
	Counterparty string    `json:"counterparty"`
}

// ProductDTO id/name pair for form dropdowns.
type ProductDTO struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	SKU       string `json:"sku"`
	UnitPrice string `json:"unit_price"`
}

// LocationDTO id/code pair for form dropdowns.
type LocationDTO struct {
	ID   int    `json:"id"`
	Code string `json:"code"`
}
