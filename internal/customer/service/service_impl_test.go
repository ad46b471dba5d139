package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	customerdomain "github.com/smallbiznis/uemoa-invoicer/internal/customer/domain"
	"github.com/smallbiznis/uemoa-invoicer/internal/customer/repository"
	orgdomain "github.com/smallbiznis/uemoa-invoicer/internal/organization/domain"
	"github.com/smallbiznis/uemoa-invoicer/internal/orgcontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupService(t *testing.T) customerdomain.Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&customerdomain.Customer{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return NewService(serviceParams{
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(db),
	})
}

func orgCtx(id int64) context.Context {
	return orgcontext.WithOrganization(context.Background(), &orgdomain.Organization{ID: snowflake.ID(id)})
}

func TestCreateAndGetCustomer(t *testing.T) {
	svc := setupService(t)
	ctx := orgCtx(1)

	created, err := svc.Create(ctx, customerdomain.CreateCustomerRequest{
		Name:  " Société Kpakpa ",
		Email: "compta@kpakpa.bj",
		Phone: "+229 97 00 00 00",
	})
	require.NoError(t, err)
	assert.Equal(t, "Société Kpakpa", created.Name)
	assert.Equal(t, "1", created.OrganizationID)

	found, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "compta@kpakpa.bj", found.Email)
	assert.Equal(t, "+229 97 00 00 00", found.Phone)
}

func TestGetCustomerFromAnotherOrganization(t *testing.T) {
	svc := setupService(t)

	created, err := svc.Create(orgCtx(1), customerdomain.CreateCustomerRequest{Name: "Kpakpa"})
	require.NoError(t, err)

	_, err = svc.GetByID(orgCtx(2), created.ID)
	assert.ErrorIs(t, err, customerdomain.ErrNotFound)
}

func TestCreateCustomerValidates(t *testing.T) {
	svc := setupService(t)

	_, err := svc.Create(orgCtx(1), customerdomain.CreateCustomerRequest{Name: " "})
	assert.ErrorIs(t, err, customerdomain.ErrInvalidName)

	_, err = svc.Create(orgCtx(1), customerdomain.CreateCustomerRequest{Name: "Kpakpa", Email: "not-an-email"})
	assert.ErrorIs(t, err, customerdomain.ErrInvalidEmail)

	_, err = svc.Create(context.Background(), customerdomain.CreateCustomerRequest{Name: "Kpakpa"})
	assert.ErrorIs(t, err, customerdomain.ErrInvalidOrganization)

	_, err = svc.GetByID(orgCtx(1), "abc")
	assert.ErrorIs(t, err, customerdomain.ErrInvalidID)
}
