package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/smartwms/wms-api/internal/domain/entity"
	"github.com/smartwms/wms-api/internal/domain/repository"
)

var _ repository.LocationRepository = (*LocationRepo)(nil)

// LocationRepo implements LocationRepository on PostgreSQL (usable with pool or tx).
type LocationRepo struct {
	q Querier
}

// NewLocationRepository builds the location persistence adapter. Pass pool or tx (Querier).
func NewLocationRepository(q Querier) *LocationRepo {
	return &LocationRepo{q: q}
}

const locationColumns = `location_id, location_code, COALESCE(zone, ''), COALESCE(aisle, ''), COALESCE(shelf, ''), capacity, current_load`

func (r *LocationRepo) GetByID(ctx context.Context, id int) (*entity.Location, error) {
	query := `SELECT ` + locationColumns + ` FROM locations WHERE location_id = $1`
	var l entity.Location
	err := r.q.QueryRow(ctx, query, id).Scan(&l.ID, &l.Code, &l.Zone, &l.Aisle, &l.Shelf, &l.Capacity, &l.CurrentLoad)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get location: %w", err)
	}
	return &l, nil
}

func (r *LocationRepo) GetByCode(ctx context.Context, code string) (*entity.Location, error) {
	query := `SELECT ` + locationColumns + ` FROM locations WHERE LOWER(location_code) = LOWER($1)`
	var l entity.Location
	err := r.q.QueryRow(ctx, query, code).Scan(&l.ID, &l.Code, &l.Zone, &l.Aisle, &l.Shelf, &l.Capacity, &l.CurrentLoad)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get location by code: %w", err)
	}
	return &l, nil
}

func (r *LocationRepo) List(ctx context.Context) ([]*entity.Location, error) {
	query := `SELECT ` + locationColumns + ` FROM locations ORDER BY location_code`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()

	var out []*entity.Location
	for rows.Next() {
		var l entity.Location
		if err := rows.Scan(&l.ID, &l.Code, &l.Zone, &l.Aisle, &l.Shelf, &l.Capacity, &l.CurrentLoad); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		out = append(out, &l)
	}
	return out, rows.Err()
}

// AddLoad shifts the load accumulator by delta. The accumulator tracks
// quantity times unit price, not physical volume.
func (r *LocationRepo) AddLoad(ctx context.Context, locationID int, delta decimal.Decimal) error {
	_, err := r.q.Exec(ctx,
		`UPDATE locations SET current_load = current_load + $2 WHERE location_id = $1`,
		locationID, delta,
	)
	if err != nil {
		return fmt.Errorf("update location load: %w", err)
	}
	return nil
}
