package seed

import (
	"testing"

	"github.com/glebarez/sqlite"
	organizationdomain "github.com/smallbiznis/uemoa-invoicer/internal/organization/domain"
	taxdomain "github.com/smallbiznis/uemoa-invoicer/internal/tax/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&organizationdomain.Organization{}, &taxdomain.Tax{}))
	return db
}

func TestEnsureDefaultOrgIsIdempotent(t *testing.T) {
	db := setupDB(t)

	first, err := EnsureDefaultOrg(db, "demo")
	require.NoError(t, err)
	assert.Equal(t, "demo", first.OrgCode)
	assert.Equal(t, organizationdomain.DefaultCountryCode, first.CountryCode)
	assert.Equal(t, organizationdomain.DefaultCurrency, first.Currency)
	assert.True(t, first.TaxEnabled)

	second, err := EnsureDefaultOrg(db, "demo")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var orgs, taxes int64
	require.NoError(t, db.Model(&organizationdomain.Organization{}).Count(&orgs).Error)
	require.NoError(t, db.Model(&taxdomain.Tax{}).Count(&taxes).Error)
	assert.EqualValues(t, 1, orgs)
	assert.EqualValues(t, 1, taxes)
}

func TestEnsureDefaultOrgRequiresCode(t *testing.T) {
	db := setupDB(t)

	_, err := EnsureDefaultOrg(db, "  ")
	assert.Error(t, err)

	_, err = EnsureDefaultOrg(nil, "demo")
	assert.Error(t, err)
}
