package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/smartwms/wms-api/internal/domain/entity"
	"github.com/smartwms/wms-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implements StockRepository on PostgreSQL (usable with pool or tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository builds the stock persistence adapter. Pass pool or tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// ListForUpdateByProduct locks a product's non-empty stock rows in the
// greedy picking order: location code ascending, oldest update first.
// FOR UPDATE OF s leaves the joined rows unlocked.
func (r *StockRepo) ListForUpdateByProduct(ctx context.Context, productID int) ([]*entity.PickableStock, error) {
	query := `
		SELECT s.stock_id, s.quantity, s.location_id, l.location_code, p.product_name
		FROM stock s
		JOIN locations l ON l.location_id = s.location_id
		JOIN products p ON p.product_id = s.product_id
		WHERE s.product_id = $1 AND s.quantity > 0
		ORDER BY l.location_code ASC, s.last_updated ASC
		FOR UPDATE OF s`
	rows, err := r.q.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("lock stock rows: %w", err)
	}
	defer rows.Close()

	var out []*entity.PickableStock
	for rows.Next() {
		var ps entity.PickableStock
		if err := rows.Scan(&ps.StockID, &ps.Quantity, &ps.LocationID, &ps.LocationCode, &ps.ProductName); err != nil {
			return nil, fmt.Errorf("scan pickable stock: %w", err)
		}
		out = append(out, &ps)
	}
	return out, rows.Err()
}

// IncrementOrInsert adds qty to the batchless (product, location) entry,
// creating it on first inbound. Matches on batch_number IS NULL because the
// unique constraint treats NULL batches as distinct.
func (r *StockRepo) IncrementOrInsert(ctx context.Context, productID, locationID, qty int) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE stock SET quantity = quantity + $3, last_updated = now()
		WHERE product_id = $1 AND location_id = $2 AND batch_number IS NULL`,
		productID, locationID, qty,
	)
	if err != nil {
		return fmt.Errorf("increment stock: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}
	_, err = r.q.Exec(ctx, `
		INSERT INTO stock (product_id, location_id, quantity, last_updated)
		VALUES ($1, $2, $3, now())`,
		productID, locationID, qty,
	)
	if err != nil {
		if isUniqueViolation(err) {
			// Lost the insert race; fold into the row that won.
			_, err = r.q.Exec(ctx, `
				UPDATE stock SET quantity = quantity + $3, last_updated = now()
				WHERE product_id = $1 AND location_id = $2 AND batch_number IS NULL`,
				productID, locationID, qty,
			)
			if err != nil {
				return fmt.Errorf("increment stock after conflict: %w", err)
			}
			return nil
		}
		return fmt.Errorf("insert stock: %w", err)
	}
	return nil
}

// Deduct subtracts qty from one stock row. The quantity CHECK constraint
// rejects a deduction below zero.
func (r *StockRepo) Deduct(ctx context.Context, stockID, qty int) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE stock SET quantity = quantity - $2, last_updated = now()
		WHERE stock_id = $1`,
		stockID, qty,
	)
	if err != nil {
		return fmt.Errorf("deduct stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("deduct stock: row %d not found", stockID)
	}
	return nil
}

// Summaries aggregates on-hand quantity per product with a comma-separated
// list of the location codes holding it. A nil productID covers everything.
func (r *StockRepo) Summaries(ctx context.Context, productID *int) ([]*entity.StockSummary, error) {
	query := `
		SELECT p.product_name, SUM(s.quantity)::int,
		       COALESCE(STRING_AGG(DISTINCT l.location_code, ', ' ORDER BY l.location_code), '')
		FROM stock s
		JOIN products p ON p.product_id = s.product_id
		JOIN locations l ON l.location_id = s.location_id
		WHERE s.quantity > 0 AND ($1::int IS NULL OR s.product_id = $1)
		GROUP BY p.product_name
		ORDER BY p.product_name`
	rows, err := r.q.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("stock summaries: %w", err)
	}
	defer rows.Close()

	var out []*entity.StockSummary
	for rows.Next() {
		var s entity.StockSummary
		if err := rows.Scan(&s.ProductName, &s.TotalQuantity, &s.Locations); err != nil {
			return nil, fmt.Errorf("scan stock summary: %w", err)
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}

func (r *StockRepo) ItemsAtLocation(ctx context.Context, locationID int) ([]*entity.LocationItem, error) {
	query := `
		SELECT p.product_name, SUM(s.quantity)::int
		FROM stock s
		JOIN products p ON p.product_id = s.product_id
		WHERE s.location_id = $1 AND s.quantity > 0
		GROUP BY p.product_name
		ORDER BY p.product_name`
	rows, err := r.q.Query(ctx, query, locationID)
	if err != nil {
		return nil, fmt.Errorf("items at location: %w", err)
	}
	defer rows.Close()

	var out []*entity.LocationItem
	for rows.Next() {
		var it entity.LocationItem
		if err := rows.Scan(&it.ProductName, &it.Quantity); err != nil {
			return nil, fmt.Errorf("scan location item: %w", err)
		}
		out = append(out, &it)
	}
	return out, rows.Err()
}

func (r *StockRepo) TotalByProduct(ctx context.Context, productID int) (int, error) {
	var total int
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(quantity), 0)::int FROM stock WHERE product_id = $1`,
		productID,
	).Scan(&total)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("total stock: %w", err)
	}
	return total, nil
}
