// Package repository provides a generic gorm-backed store.
package repository

import (
	"context"

	"github.com/smallbiznis/uemoa-invoicer/pkg/db/option"
	"gorm.io/gorm"
)

// Repository is a typed CRUD store. Struct filters follow gorm semantics:
// zero-valued fields are ignored.
type Repository[T any] interface {
	WithTrx(tx *gorm.DB) Repository[T]
	Find(ctx context.Context, query *T, opts ...option.QueryOption) ([]*T, error)
	// FindOne returns nil, nil when no row matches.
	FindOne(ctx context.Context, query *T, opts ...option.QueryOption) (*T, error)
	Create(ctx context.Context, resource *T) error
	Update(ctx context.Context, resourceID string, resource any) error
	Count(ctx context.Context, query *T) (int64, error)
}
