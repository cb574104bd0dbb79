package repository

import (
	"context"

	"github.com/smartwms/wms-api/internal/domain/entity"
)

// UserRepository is the port for operator accounts. Returns (nil, nil) when
// no row matches.
type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	Create(ctx context.Context, user *entity.User) error
}
