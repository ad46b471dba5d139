package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	taxdomain "github.com/smallbiznis/uemoa-invoicer/internal/tax/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) taxdomain.Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, tax *taxdomain.Tax) error {
	return r.db.WithContext(ctx).Create(tax).Error
}

func (r *repository) FindByID(ctx context.Context, orgID, id snowflake.ID) (*taxdomain.Tax, error) {
	var tax taxdomain.Tax
	err := r.db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		First(&tax).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tax, nil
}

func (r *repository) List(ctx context.Context, orgID snowflake.ID) ([]taxdomain.Tax, error) {
	var taxes []taxdomain.Tax
	err := r.db.WithContext(ctx).
		Where("org_id = ?", orgID).
		Order("name ASC").
		Find(&taxes).Error
	return taxes, err
}
