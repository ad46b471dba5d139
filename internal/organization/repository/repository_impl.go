package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/uemoa-invoicer/internal/organization/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) domain.Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, org *domain.Organization) error {
	return r.db.WithContext(ctx).Create(org).Error
}

func (r *repository) Update(ctx context.Context, org *domain.Organization) error {
	return r.db.WithContext(ctx).
		Model(&domain.Organization{}).
		Where("id = ?", org.ID).
		Updates(map[string]any{
			"name":             org.Name,
			"address":          org.Address,
			"trade_register":   org.TradeRegister,
			"tax_id":           org.TaxID,
			"tax_enabled":      org.TaxEnabled,
			"default_tax_rate": org.DefaultTaxRate,
			"whatsapp_number":  org.WhatsappNumber,
			"metadata":         org.Metadata,
			"updated_at":       org.UpdatedAt,
		}).Error
}

func (r *repository) FindByID(ctx context.Context, id snowflake.ID) (*domain.Organization, error) {
	var org domain.Organization
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&org).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &org, nil
}

func (r *repository) FindByCode(ctx context.Context, code string) (*domain.Organization, error) {
	var org domain.Organization
	err := r.db.WithContext(ctx).Where("org_code = ?", code).First(&org).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &org, nil
}
