package warehouse

import (
	"context"

	"github.com/smartwms/wms-api/internal/domain/repository"
)

// TxRunner executes fn inside a single database transaction. The
// repositories handed to fn are bound to that transaction; returning an
// error rolls everything back, returning nil commits.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		stock repository.StockRepository,
		locations repository.LocationRepository,
		inbound repository.InboundRepository,
		outbound repository.OutboundRepository,
	) error) error
}
