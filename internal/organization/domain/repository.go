package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, org *Organization) error
	Update(ctx context.Context, org *Organization) error
	// FindByID and FindByCode return nil, nil when no row matches.
	FindByID(ctx context.Context, id snowflake.ID) (*Organization, error)
	FindByCode(ctx context.Context, code string) (*Organization, error)
}
