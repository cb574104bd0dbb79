package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/smartwms/wms-api/internal/domain/entity"
)

// LocationRepository is the port for location lookups and load updates.
// Implementations return (nil, nil) when no row matches.
type LocationRepository interface {
	GetByID(ctx context.Context, id int) (*entity.Location, error)
	// GetByCode matches the location code case-insensitively.
	GetByCode(ctx context.Context, code string) (*entity.Location, error)
	List(ctx context.Context) ([]*entity.Location, error)
	// AddLoad adjusts the location's load accumulator by delta
	// (positive on inbound, negative on outbound). Only meaningful inside
	// a ledger transaction.
	AddLoad(ctx context.Context, locationID int, delta decimal.Decimal) error
}
