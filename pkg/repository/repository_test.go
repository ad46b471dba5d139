package repository

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/uemoa-invoicer/pkg/db/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type widget struct {
	ID    int64 `gorm:"primaryKey"`
	OrgID int64
	Name  string
	Main  bool
}

func setupStore(t *testing.T) Repository[widget] {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file:repository_test?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.Migrator().DropTable(&widget{}))
	require.NoError(t, conn.AutoMigrate(&widget{}))
	return ProvideStore[widget](conn)
}

func TestStoreFindOne(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t)

	require.NoError(t, store.Create(ctx, &widget{ID: 1, OrgID: 10, Name: "a"}))
	require.NoError(t, store.Create(ctx, &widget{ID: 2, OrgID: 10, Name: "b", Main: true}))
	require.NoError(t, store.Create(ctx, &widget{ID: 3, OrgID: 20, Name: "c", Main: true}))

	found, err := store.FindOne(ctx, &widget{OrgID: 10}, option.WithWhere("main = ?", true))
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, int64(2), found.ID)

	missing, err := store.FindOne(ctx, &widget{OrgID: 30})
	require.NoError(t, err)
	assert.Nil(t, missing)

	all, err := store.Find(ctx, &widget{OrgID: 10}, option.WithOrder("id desc"), option.WithLimit(1))
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, int64(2), all[0].ID)

	count, err := store.Count(ctx, &widget{OrgID: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	require.NoError(t, store.Update(ctx, "1", map[string]any{"name": "renamed"}))
	renamed, err := store.FindOne(ctx, &widget{ID: 1})
	require.NoError(t, err)
	assert.Equal(t, "renamed", renamed.Name)
}
