// Package option holds composable query modifiers for the generic store.
package option

import "gorm.io/gorm"

type QueryOption interface {
	Apply(db *gorm.DB) *gorm.DB
}

type queryFunc func(db *gorm.DB) *gorm.DB

func (f queryFunc) Apply(db *gorm.DB) *gorm.DB { return f(db) }

// WithWhere adds an extra condition to the query.
func WithWhere(query any, args ...any) QueryOption {
	return queryFunc(func(db *gorm.DB) *gorm.DB { return db.Where(query, args...) })
}

func WithOrder(order string) QueryOption {
	return queryFunc(func(db *gorm.DB) *gorm.DB { return db.Order(order) })
}

func WithLimit(limit int) QueryOption {
	return queryFunc(func(db *gorm.DB) *gorm.DB { return db.Limit(limit) })
}

func WithPreload(association string) QueryOption {
	return queryFunc(func(db *gorm.DB) *gorm.DB { return db.Preload(association) })
}
