package category

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"biosen/internal/auth"
	"biosen/internal/commons"
	apperrors "biosen/internal/errors"
	"biosen/internal/testutil"
)

// Unit Tests

func TestNewMySQLRepository(t *testing.T) {
	db := &sql.DB{}
	repo := NewMySQLRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

// Integration Tests

func setupCategoryService(t *testing.T) (*Service, *sql.DB) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)

	return NewService(NewMySQLRepository(db), zap.NewNop()), db
}

func seedShop(t *testing.T, db *sql.DB, name string) int64 {
	result, err := db.Exec(`INSERT INTO shops (name, active) VALUES (?, 1)`, name)
	require.NoError(t, err)
	id, err := result.LastInsertId()
	require.NoError(t, err)
	return id
}

func TestCategoryService_Delete_BlockedByProducts(t *testing.T) {
	svc, db := setupCategoryService(t)
	defer testutil.CleanupTestDB(t, db)
	ctx := context.Background()

	shopID := seedShop(t, db, "Biosen Dakar")
	admin := auth.Identity{UserID: 1, Role: "admin"}

	c, err := svc.Create(ctx, admin, CreateRequest{ShopID: shopID, Name: "Tisanes"})
	require.NoError(t, err)

	_, err = db.Exec(`
		INSERT INTO products (shop_id, category_id, name, price, stock, active)
		VALUES (?, ?, 'Tisane Kinkeliba', 500.00, 10, 1)`, shopID, c.ID)
	require.NoError(t, err)

	err = svc.Delete(ctx, admin, c.ID)
	_, ok := apperrors.IsConflictError(err)
	assert.True(t, ok, "expected conflict error, got %v", err)

	// The row must still be there.
	_, err = svc.Show(ctx, admin, c.ID)
	require.NoError(t, err)
}

func TestCategoryService_Delete_EmptyCategory(t *testing.T) {
	svc, db := setupCategoryService(t)
	defer testutil.CleanupTestDB(t, db)
	ctx := context.Background()

	shopID := seedShop(t, db, "Biosen Dakar")
	admin := auth.Identity{UserID: 1, Role: "admin"}

	c, err := svc.Create(ctx, admin, CreateRequest{ShopID: shopID, Name: "Sirops"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, admin, c.ID))

	_, err = svc.Show(ctx, admin, c.ID)
	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok, "expected not found, got %v", err)
}

func TestCategoryService_ManagerPinnedToOwnShop(t *testing.T) {
	svc, db := setupCategoryService(t)
	defer testutil.CleanupTestDB(t, db)
	ctx := context.Background()

	ownShop := seedShop(t, db, "Biosen Dakar")
	otherShop := seedShop(t, db, "Biosen Thies")
	admin := auth.Identity{UserID: 1, Role: "admin"}

	_, err := svc.Create(ctx, admin, CreateRequest{ShopID: ownShop, Name: "Tisanes"})
	require.NoError(t, err)
	foreign, err := svc.Create(ctx, admin, CreateRequest{ShopID: otherShop, Name: "Sirops"})
	require.NoError(t, err)

	manager := auth.Identity{UserID: 2, Role: "manager", ShopID: &ownShop}

	// A manager asking for another shop's rows still only sees their own.
	scope := auth.ShopScope(manager, otherShop)
	categories, total, err := svc.List(ctx, ListFilter{ShopID: scope, Page: commons.Page{Number: 1, PerPage: 20}})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, categories, 1)
	assert.Equal(t, ownShop, categories[0].ShopID)

	// Foreign reads and writes are forbidden.
	_, err = svc.Show(ctx, manager, foreign.ID)
	_, ok := apperrors.IsForbiddenError(err)
	assert.True(t, ok, "expected forbidden, got %v", err)

	err = svc.Delete(ctx, manager, foreign.ID)
	_, ok = apperrors.IsForbiddenError(err)
	assert.True(t, ok, "expected forbidden, got %v", err)
}
