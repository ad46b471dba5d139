package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	orgdomain "github.com/smallbiznis/uemoa-invoicer/internal/organization/domain"
	"github.com/smallbiznis/uemoa-invoicer/internal/orgcontext"
	taxdomain "github.com/smallbiznis/uemoa-invoicer/internal/tax/domain"
	"github.com/smallbiznis/uemoa-invoicer/internal/tax/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupService(t *testing.T) taxdomain.Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&taxdomain.Tax{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return NewService(serviceParams{
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.NewRepository(db),
	})
}

func orgCtx(id int64) context.Context {
	return orgcontext.WithOrganization(context.Background(), &orgdomain.Organization{ID: snowflake.ID(id)})
}

func TestCreateAndListAreScopedToOrganization(t *testing.T) {
	svc := setupService(t)

	created, err := svc.Create(orgCtx(1), taxdomain.CreateRequest{Name: " TVA ", Rate: decimal.RequireFromString("18.004")})
	require.NoError(t, err)
	assert.Equal(t, "TVA", created.Name)
	assert.Equal(t, "18.00", created.Rate)
	assert.Equal(t, "1", created.OrganizationID)

	_, err = svc.Create(orgCtx(2), taxdomain.CreateRequest{Name: "AIB", Rate: decimal.NewFromInt(5)})
	require.NoError(t, err)

	items, err := svc.List(orgCtx(1))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, created.ID, items[0].ID)
}

func TestCreateValidates(t *testing.T) {
	svc := setupService(t)

	_, err := svc.Create(orgCtx(1), taxdomain.CreateRequest{Name: "", Rate: decimal.NewFromInt(18)})
	assert.ErrorIs(t, err, taxdomain.ErrInvalidName)

	_, err = svc.Create(orgCtx(1), taxdomain.CreateRequest{Name: "TVA", Rate: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, taxdomain.ErrInvalidTaxRate)

	_, err = svc.Create(context.Background(), taxdomain.CreateRequest{Name: "TVA"})
	assert.ErrorIs(t, err, taxdomain.ErrInvalidOrganization)

	_, err = svc.List(context.Background())
	assert.ErrorIs(t, err, taxdomain.ErrInvalidOrganization)
}
