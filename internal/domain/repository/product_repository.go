package repository

import (
	"context"

	"github.com/smartwms/wms-api/internal/domain/entity"
)

// ProductRepository is the port for product lookups. Implementations return
// (nil, nil) when no row matches.
type ProductRepository interface {
	GetByID(ctx context.Context, id int) (*entity.Product, error)
	// FindByName matches case-insensitively on a substring of the product
	// name and returns the first hit.
	FindByName(ctx context.Context, name string) (*entity.Product, error)
	List(ctx context.Context) ([]*entity.Product, error)
}
