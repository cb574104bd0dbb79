package repository

import (
	"context"

	"github.com/smartwms/wms-api/internal/domain/entity"
)

// InboundRepository is the port for the append-only inbound audit table.
type InboundRepository interface {
	Create(ctx context.Context, rec *entity.InboundRecord) error
	// Recent returns the latest rows joined with product names, newest first.
	Recent(ctx context.Context, limit int) ([]*entity.MovementHistoryRow, error)
	// TotalByProduct sums all inbound quantity ever recorded for a product.
	TotalByProduct(ctx context.Context, productID int) (int, error)
}

// OutboundRepository is the port for the append-only outbound audit table.
type OutboundRepository interface {
	Create(ctx context.Context, rec *entity.OutboundRecord) error
	Recent(ctx context.Context, limit int) ([]*entity.MovementHistoryRow, error)
	TotalByProduct(ctx context.Context, productID int) (int, error)
}
