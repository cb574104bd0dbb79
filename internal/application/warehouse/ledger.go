package warehouse

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/smartwms/wms-api/internal/domain"
	"github.com/smartwms/wms-api/internal/domain/entity"
	"github.com/smartwms/wms-api/internal/domain/repository"
	"github.com/smartwms/wms-api/pkg/logger"
)

// Supplier and customer placeholders stamped on rows created through the
// conversational channel, where no counterparty is captured.
const (
	DefaultSupplier = "AI_WMS"
	DefaultCustomer = "AI_WMS"
)

const (
	defaultHistoryLimit = 5
	maxHistoryLimit     = 50
)

// OutboundStatus reports how an outbound command ended.
type OutboundStatus string

const (
	// StatusFulfilled means the full quantity was deducted.
	StatusFulfilled OutboundStatus = "fulfilled"
	// StatusPartiallyReconciled means the availability check passed but
	// the deduction loop could not place the full quantity. The partial
	// deduction is still committed; the caller must surface the shortfall.
	StatusPartiallyReconciled OutboundStatus = "partially_reconciled"
)

// InboundInput describes one inbound command.
type InboundInput struct {
	ProductID  int
	Quantity   int
	LocationID int
	Actor      string
}

// OutboundInput describes one outbound command.
type OutboundInput struct {
	ProductID int
	Quantity  int
	Actor     string
}

// OutboundResult is the outcome of a committed outbound.
type OutboundResult struct {
	Status              OutboundStatus
	ProductName         string
	Requested           int
	Deducted            int
	PickingInstructions []string
}

// Ledger is the transactional engine behind inbound and outbound commands
// and the read side of stock queries. All mutations run inside a single
// database transaction through the TxRunner.
type Ledger struct {
	products  repository.ProductRepository
	locations repository.LocationRepository
	stock     repository.StockRepository
	inbound   repository.InboundRepository
	outbound  repository.OutboundRepository
	tx        TxRunner
	log       *logger.Logger
}

func NewLedger(
	products repository.ProductRepository,
	locations repository.LocationRepository,
	stock repository.StockRepository,
	inbound repository.InboundRepository,
	outbound repository.OutboundRepository,
	tx TxRunner,
	log *logger.Logger,
) *Ledger {
	return &Ledger{
		products:  products,
		locations: locations,
		stock:     stock,
		inbound:   inbound,
		outbound:  outbound,
		tx:        tx,
		log:       log,
	}
}

// Inbound records an inbound movement: audit row, stock increment and the
// location load accumulator, all in one transaction.
func (l *Ledger) Inbound(ctx context.Context, in InboundInput) (*entity.Product, *entity.Location, error) {
	if in.Quantity <= 0 {
		return nil, nil, fmt.Errorf("%w: quantity must be positive", domain.ErrInvalidInput)
	}

	product, err := l.products.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, nil, fmt.Errorf("loading product: %w", err)
	}
	if product == nil {
		return nil, nil, domain.ErrProductNotFound
	}
	location, err := l.locations.GetByID(ctx, in.LocationID)
	if err != nil {
		return nil, nil, fmt.Errorf("loading location: %w", err)
	}
	if location == nil {
		return nil, nil, domain.ErrLocationNotFound
	}

	txID := uuid.New().String()
	err = l.tx.Run(ctx, func(
		stock repository.StockRepository,
		locations repository.LocationRepository,
		inbound repository.InboundRepository,
		_ repository.OutboundRepository,
	) error {
		rec := &entity.InboundRecord{
			ProductID:  in.ProductID,
			Quantity:   in.Quantity,
			OccurredAt: time.Now(),
			Supplier:   DefaultSupplier,
			ReceivedBy: in.Actor,
		}
		if err := inbound.Create(ctx, rec); err != nil {
			return fmt.Errorf("recording inbound: %w", err)
		}
		if err := stock.IncrementOrInsert(ctx, in.ProductID, in.LocationID, in.Quantity); err != nil {
			return fmt.Errorf("incrementing stock: %w", err)
		}
		load := product.UnitPrice.Mul(decimal.NewFromInt(int64(in.Quantity)))
		if err := locations.AddLoad(ctx, in.LocationID, load); err != nil {
			return fmt.Errorf("updating location load: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	l.log.Info().
		Str("tx_id", txID).
		Int("product_id", in.ProductID).
		Int("location_id", in.LocationID).
		Int("quantity", in.Quantity).
		Str("actor", in.Actor).
		Msg("inbound recorded")
	return product, location, nil
}

// Outbound deducts stock greedily across locations, walking rows in
// location code order and oldest first within a location. Each deduction is
// clamped to the locked row's quantity, so a concurrent outbound can never
// drive a row negative. When the locked rows hold less than the availability
// check promised, the shortfall is committed as-is and reported as
// partially reconciled.
//
// Returns ErrInsufficientStock (nothing committed) when on-hand quantity is
// short of the request.
func (l *Ledger) Outbound(ctx context.Context, in OutboundInput) (*OutboundResult, error) {
	if in.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", domain.ErrInvalidInput)
	}

	product, err := l.products.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, fmt.Errorf("loading product: %w", err)
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}

	result := &OutboundResult{
		Status:      StatusFulfilled,
		ProductName: product.Name,
		Requested:   in.Quantity,
	}

	txID := uuid.New().String()
	err = l.tx.Run(ctx, func(
		stock repository.StockRepository,
		locations repository.LocationRepository,
		_ repository.InboundRepository,
		outbound repository.OutboundRepository,
	) error {
		available, err := stock.TotalByProduct(ctx, in.ProductID)
		if err != nil {
			return fmt.Errorf("checking availability: %w", err)
		}
		if available < in.Quantity {
			return domain.ErrInsufficientStock
		}

		rows, err := stock.ListForUpdateByProduct(ctx, in.ProductID)
		if err != nil {
			return fmt.Errorf("locking stock rows: %w", err)
		}

		rec := &entity.OutboundRecord{
			ProductID:  in.ProductID,
			Quantity:   in.Quantity,
			OccurredAt: time.Now(),
			Customer:   DefaultCustomer,
			ShippedBy:  in.Actor,
		}
		if err := outbound.Create(ctx, rec); err != nil {
			return fmt.Errorf("recording outbound: %w", err)
		}

		remaining := in.Quantity
		for _, row := range rows {
			if remaining == 0 {
				break
			}
			take := row.Quantity
			if take > remaining {
				take = remaining
			}
			if err := stock.Deduct(ctx, row.StockID, take); err != nil {
				return fmt.Errorf("deducting stock: %w", err)
			}
			unload := product.UnitPrice.Mul(decimal.NewFromInt(int64(take))).Neg()
			if err := locations.AddLoad(ctx, row.LocationID, unload); err != nil {
				return fmt.Errorf("updating location load: %w", err)
			}
			result.PickingInstructions = append(result.PickingInstructions,
				fmt.Sprintf("'%s' 로케이션에서 '%s' %d개를 피킹하세요.", row.LocationCode, product.Name, take))
			remaining -= take
		}
		result.Deducted = in.Quantity - remaining
		if remaining > 0 {
			// The locked rows came up short despite the availability
			// check. Keep the deductions that did land and flag the
			// shortfall instead of unwinding the audit trail.
			result.Status = StatusPartiallyReconciled
			l.log.Warn().
				Str("tx_id", txID).
				Int("product_id", in.ProductID).
				Int("requested", in.Quantity).
				Int("deducted", result.Deducted).
				Msg("outbound partially reconciled")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.log.Info().
		Str("tx_id", txID).
		Int("product_id", in.ProductID).
		Int("quantity", in.Quantity).
		Str("actor", in.Actor).
		Str("status", string(result.Status)).
		Msg("outbound recorded")
	return result, nil
}

// CurrentStock aggregates on-hand quantity per product. productID == nil
// covers the whole warehouse.
func (l *Ledger) CurrentStock(ctx context.Context, productID *int) ([]*entity.StockSummary, error) {
	return l.stock.Summaries(ctx, productID)
}

// TotalOnHand returns the aggregate quantity of one product.
func (l *Ledger) TotalOnHand(ctx context.Context, productID int) (int, error) {
	return l.stock.TotalByProduct(ctx, productID)
}

// LocationItems lists what a location currently holds. The location must
// exist; an existing but empty location yields an empty slice.
func (l *Ledger) LocationItems(ctx context.Context, code string) (*entity.Location, []*entity.LocationItem, error) {
	location, err := l.locations.GetByCode(ctx, code)
	if err != nil {
		return nil, nil, fmt.Errorf("loading location: %w", err)
	}
	if location == nil {
		return nil, nil, domain.ErrLocationNotFound
	}
	items, err := l.stock.ItemsAtLocation(ctx, location.ID)
	if err != nil {
		return nil, nil, err
	}
	return location, items, nil
}

// RecentInbounds returns the newest inbound rows. A limit outside 1..50
// falls back to the default of 5.
func (l *Ledger) RecentInbounds(ctx context.Context, limit *int) ([]*entity.MovementHistoryRow, error) {
	return l.inbound.Recent(ctx, clampLimit(limit))
}

// RecentOutbounds returns the newest outbound rows, same limit handling as
// RecentInbounds.
func (l *Ledger) RecentOutbounds(ctx context.Context, limit *int) ([]*entity.MovementHistoryRow, error) {
	return l.outbound.Recent(ctx, clampLimit(limit))
}

// Products lists the product catalog.
func (l *Ledger) Products(ctx context.Context) ([]*entity.Product, error) {
	return l.products.List(ctx)
}

// Locations lists the storage locations.
func (l *Ledger) Locations(ctx context.Context) ([]*entity.Location, error) {
	return l.locations.List(ctx)
}

// ProductByID resolves a product by primary key.
func (l *Ledger) ProductByID(ctx context.Context, id int) (*entity.Product, error) {
	product, err := l.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	return product, nil
}

// FindProductByName resolves a spoken product name to a catalog row.
func (l *Ledger) FindProductByName(ctx context.Context, name string) (*entity.Product, error) {
	product, err := l.products.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	return product, nil
}

// FindLocationByCode resolves a location code, case-insensitively.
func (l *Ledger) FindLocationByCode(ctx context.Context, code string) (*entity.Location, error) {
	location, err := l.locations.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if location == nil {
		return nil, domain.ErrLocationNotFound
	}
	return location, nil
}

func clampLimit(limit *int) int {
	if limit == nil || *limit < 1 || *limit > maxHistoryLimit {
		return defaultHistoryLimit
	}
	return *limit
}
