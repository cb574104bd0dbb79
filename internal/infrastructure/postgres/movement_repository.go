package postgres

import (
	"context"
	"fmt"

	"github.com/smartwms/wms-api/internal/domain/entity"
	"github.com/smartwms/wms-api/internal/domain/repository"
)

var (
	_ repository.InboundRepository  = (*InboundRepo)(nil)
	_ repository.OutboundRepository = (*OutboundRepo)(nil)
)

// InboundRepo implements InboundRepository on PostgreSQL (usable with pool or tx).
type InboundRepo struct {
	q Querier
}

// NewInboundRepository builds the inbound audit adapter. Pass pool or tx (Querier).
func NewInboundRepository(q Querier) *InboundRepo {
	return &InboundRepo{q: q}
}

func (r *InboundRepo) Create(ctx context.Context, rec *entity.InboundRecord) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO inbound (product_id, quantity, inbound_date, supplier, received_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING inbound_id`,
		rec.ProductID, rec.Quantity, rec.OccurredAt, rec.Supplier, rec.ReceivedBy,
	).Scan(&rec.ID)
	if err != nil {
		return fmt.Errorf("insert inbound: %w", err)
	}
	return nil
}

func (r *InboundRepo) Recent(ctx context.Context, limit int) ([]*entity.MovementHistoryRow, error) {
	query := `
		SELECT p.product_name, i.quantity, i.inbound_date, COALESCE(i.supplier, '')
		FROM inbound i
		JOIN products p ON p.product_id = i.product_id
		ORDER BY i.inbound_date DESC
		LIMIT $1`
	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("recent inbounds: %w", err)
	}
	defer rows.Close()

	var out []*entity.MovementHistoryRow
	for rows.Next() {
		var h entity.MovementHistoryRow
		if err := rows.Scan(&h.ProductName, &h.Quantity, &h.OccurredAt, &h.Counterparty); err != nil {
			return nil, fmt.Errorf("scan inbound row: %w", err)
		}
		out = append(out, &h)
	}
	return out, rows.Err()
}

func (r *InboundRepo) TotalByProduct(ctx context.Context, productID int) (int, error) {
	var total int
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(quantity), 0)::int FROM inbound WHERE product_id = $1`,
		productID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("total inbound: %w", err)
	}
	return total, nil
}

// OutboundRepo implements OutboundRepository on PostgreSQL (usable with pool or tx).
type OutboundRepo struct {
	q Querier
}

// NewOutboundRepository builds the outbound audit adapter. Pass pool or tx (Querier).
func NewOutboundRepository(q Querier) *OutboundRepo {
	return &OutboundRepo{q: q}
}

func (r *OutboundRepo) Create(ctx context.Context, rec *entity.OutboundRecord) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO outbound (product_id, quantity, outbound_date, customer, shipped_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING outbound_id`,
		rec.ProductID, rec.Quantity, rec.OccurredAt, rec.Customer, rec.ShippedBy,
	).Scan(&rec.ID)
	if err != nil {
		return fmt.Errorf("insert outbound: %w", err)
	}
	return nil
}

func (r *OutboundRepo) Recent(ctx context.Context, limit int) ([]*entity.MovementHistoryRow, error) {
	query := `
		SELECT p.product_name, o.quantity, o.outbound_date, COALESCE(o.customer, '')
		FROM outbound o
		JOIN products p ON p.product_id = o.product_id
		ORDER BY o.outbound_date DESC
		LIMIT $1`
	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("recent outbounds: %w", err)
	}
	defer rows.Close()

	var out []*entity.MovementHistoryRow
	for rows.Next() {
		var h entity.MovementHistoryRow
		if err := rows.Scan(&h.ProductName, &h.Quantity, &h.OccurredAt, &h.Counterparty); err != nil {
			return nil, fmt.Errorf("scan outbound row: %w", err)
		}
		out = append(out, &h)
	}
	return out, rows.Err()
}

func (r *OutboundRepo) TotalByProduct(ctx context.Context, productID int) (int, error) {
	var total int
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(quantity), 0)::int FROM outbound WHERE product_id = $1`,
		productID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("total outbound: %w", err)
	}
	return total, nil
}
