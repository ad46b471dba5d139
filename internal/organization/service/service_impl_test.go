package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/uemoa-invoicer/internal/organization/domain"
	"github.com/smallbiznis/uemoa-invoicer/internal/organization/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupService(t *testing.T) domain.Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&domain.Organization{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return NewService(ServiceParam{
		Repo:  repository.NewRepository(db),
		Log:   zap.NewNop(),
		GenID: node,
	})
}

func strPtr(s string) *string { return &s }

func TestCreateAppliesDefaults(t *testing.T) {
	svc := setupService(t)

	resp, err := svc.Create(context.Background(), domain.CreateOrganizationRequest{
		Name:    "Boutique Cotonou",
		OrgCode: "Boutique Cotonou",
	})
	require.NoError(t, err)

	assert.Equal(t, "boutique-cotonou", resp.OrgCode)
	assert.Equal(t, "BJ", resp.CountryCode)
	assert.Equal(t, "XOF", resp.Currency)
	assert.True(t, resp.TaxEnabled)
	assert.Equal(t, "18.00", resp.DefaultTaxRate)
	assert.Equal(t, domain.DefaultBrandColor, resp.BrandColor)
}

func TestCreateValidatesInput(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()
	negative := decimal.NewFromInt(-1)

	cases := []struct {
		name string
		req  domain.CreateOrganizationRequest
		err  error
	}{
		{"name", domain.CreateOrganizationRequest{Name: "  "}, domain.ErrInvalidName},
		{"country", domain.CreateOrganizationRequest{Name: "Acme", CountryCode: "BEN"}, domain.ErrInvalidCountry},
		{"currency", domain.CreateOrganizationRequest{Name: "Acme", Currency: "CFA1"}, domain.ErrInvalidCurrency},
		{"tax rate", domain.CreateOrganizationRequest{Name: "Acme", DefaultTaxRate: &negative}, domain.ErrInvalidTaxRate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tc.req)
			assert.ErrorIs(t, err, tc.err)
		})
	}
}

func TestCreateRejectsDuplicateCode(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateOrganizationRequest{Name: "Acme", OrgCode: "acme"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, domain.CreateOrganizationRequest{Name: "Acme bis", OrgCode: "ACME"})
	assert.ErrorIs(t, err, domain.ErrDuplicateOrgCode)
}

func TestGetByCodeIsExact(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateOrganizationRequest{Name: "Acme", OrgCode: "acme"})
	require.NoError(t, err)

	org, err := svc.GetByCode(ctx, "acme")
	require.NoError(t, err)
	require.NotNil(t, org)
	assert.Equal(t, "acme", org.OrgCode)

	for _, code := range []string{"", "acm", "acme-sarl"} {
		org, err := svc.GetByCode(ctx, code)
		require.NoError(t, err)
		assert.Nil(t, org, code)
	}
}

func TestUpdateSettings(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateOrganizationRequest{Name: "Acme", OrgCode: "acme"})
	require.NoError(t, err)

	disabled := false
	rate := decimal.RequireFromString("19.256")
	updated, err := svc.UpdateSettings(ctx, created.ID, domain.UpdateSettingsRequest{
		TradeRegister:  strPtr(" RB/COT/24 B 1234 "),
		TaxID:          strPtr("3202400000000"),
		TaxEnabled:     &disabled,
		DefaultTaxRate: &rate,
		BrandColor:     strPtr("#0a7"),
		LogoURL:        strPtr("https://cdn.example.com/acme.png"),
	})
	require.NoError(t, err)

	assert.Equal(t, "acme", updated.OrgCode)
	assert.Equal(t, "RB/COT/24 B 1234", updated.TradeRegister)
	assert.Equal(t, "3202400000000", updated.TaxID)
	assert.False(t, updated.TaxEnabled)
	assert.Equal(t, "19.26", updated.DefaultTaxRate)
	assert.Equal(t, "#0a7", updated.BrandColor)

	reloaded, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "RB/COT/24 B 1234", reloaded.TradeRegister)
	assert.Equal(t, "https://cdn.example.com/acme.png", reloaded.LogoURL)

	cleared, err := svc.UpdateSettings(ctx, created.ID, domain.UpdateSettingsRequest{BrandColor: strPtr("")})
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultBrandColor, cleared.BrandColor)
}

func TestUpdateSettingsRejectsInvalidValues(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateOrganizationRequest{Name: "Acme"})
	require.NoError(t, err)

	_, err = svc.UpdateSettings(ctx, created.ID, domain.UpdateSettingsRequest{BrandColor: strPtr("red")})
	assert.ErrorIs(t, err, domain.ErrInvalidBrandColor)

	_, err = svc.UpdateSettings(ctx, created.ID, domain.UpdateSettingsRequest{Name: strPtr(" ")})
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	_, err = svc.UpdateSettings(ctx, "123", domain.UpdateSettingsRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.UpdateSettings(ctx, "abc", domain.UpdateSettingsRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidOrganization)
}
