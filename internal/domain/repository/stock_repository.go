package repository

import (
	"context"

	"github.com/smartwms/wms-api/internal/domain/entity"
)

// StockRepository is the port for the stock table. The mutating methods are
// only meaningful inside a ledger transaction.
type StockRepository interface {
	// ListForUpdateByProduct reads all non-empty stock rows of a product
	// ordered by location code ascending, then last_updated ascending, and
	// locks them (SELECT ... FOR UPDATE) so the availability check and the
	// deduction loop see the same rows.
	ListForUpdateByProduct(ctx context.Context, productID int) ([]*entity.PickableStock, error)
	// IncrementOrInsert adds qty to the (product, location, nil batch)
	// entry, creating it on first inbound.
	IncrementOrInsert(ctx context.Context, productID, locationID, qty int) error
	// Deduct subtracts qty from a stock row. Callers guarantee
	// qty <= row quantity; the schema CHECK rejects anything else.
	Deduct(ctx context.Context, stockID, qty int) error

	// Summaries aggregates quantity per product across locations and
	// batches. productID == nil means all products.
	Summaries(ctx context.Context, productID *int) ([]*entity.StockSummary, error)
	// ItemsAtLocation lists the non-empty stock at one location.
	ItemsAtLocation(ctx context.Context, locationID int) ([]*entity.LocationItem, error)
	// TotalByProduct returns the aggregate on-hand quantity of a product.
	TotalByProduct(ctx context.Context, productID int) (int, error)
}
