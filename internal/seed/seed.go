package seed

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	organizationdomain "github.com/smallbiznis/uemoa-invoicer/internal/organization/domain"
	taxdomain "github.com/smallbiznis/uemoa-invoicer/internal/tax/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const defaultTaxName = "TVA"

// EnsureDefaultOrg seeds the organization used by the development fallback
// tenant. It is a no-op when an organization with the code already exists.
func EnsureDefaultOrg(db *gorm.DB, code string) (*organizationdomain.Organization, error) {
	if db == nil {
		return nil, errors.New("seed database handle is required")
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, errors.New("seed org code is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	var org organizationdomain.Organization
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, created, err := ensureOrgTx(ctx, tx, node, code)
		if err != nil {
			return err
		}
		org = found
		if !created {
			return nil
		}
		return ensureTaxTx(ctx, tx, node, org)
	})
	if err != nil {
		return nil, err
	}
	return &org, nil
}

func ensureOrgTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node, code string) (organizationdomain.Organization, bool, error) {
	var org organizationdomain.Organization
	err := tx.WithContext(ctx).Where("org_code = ?", code).First(&org).Error
	if err == nil {
		return org, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return org, false, err
	}

	now := time.Now().UTC()
	org = organizationdomain.Organization{
		ID:             node.Generate(),
		Name:           strings.ToUpper(code),
		OrgCode:        code,
		CountryCode:    organizationdomain.DefaultCountryCode,
		Currency:       organizationdomain.DefaultCurrency,
		TaxEnabled:     true,
		DefaultTaxRate: organizationdomain.DefaultTaxRate,
		Metadata:       datatypes.JSONMap{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := tx.WithContext(ctx).Create(&org).Error; err != nil {
		return org, false, err
	}
	return org, true, nil
}

func ensureTaxTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node, org organizationdomain.Organization) error {
	now := time.Now().UTC()
	tax := taxdomain.Tax{
		ID:        node.Generate(),
		OrgID:     org.ID,
		Name:      defaultTaxName,
		Rate:      org.DefaultTaxRate,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return tx.WithContext(ctx).Create(&tax).Error
}
