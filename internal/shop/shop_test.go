package shop

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "biosen/internal/errors"
	"biosen/internal/testutil"
	"biosen/internal/upload"
)

// Unit Tests

func TestNewMySQLRepository(t *testing.T) {
	db := &sql.DB{}
	repo := NewMySQLRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

// Integration Tests

func setupShopService(t *testing.T) (*Service, *sql.DB) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)

	storage := upload.NewStorage(t.TempDir(), zap.NewNop())
	return NewService(NewMySQLRepository(db), storage, zap.NewNop()), db
}

func TestShopService_Delete_BlockedByUsers(t *testing.T) {
	svc, db := setupShopService(t)
	defer testutil.CleanupTestDB(t, db)
	ctx := context.Background()

	shop, err := svc.Create(ctx, CreateShopRequest{Name: "Biosen Dakar"}, nil)
	require.NoError(t, err)

	_, err = db.Exec(`
		INSERT INTO users (name, email, password_hash, role, shop_id, active)
		VALUES ('Fatou Ndiaye', 'fatou@biosen.local', 'x', 'manager', ?, 1)`, shop.ID)
	require.NoError(t, err)

	err = svc.Delete(ctx, shop.ID)
	_, ok := apperrors.IsConflictError(err)
	assert.True(t, ok, "expected conflict error, got %v", err)

	// The row must still be there.
	_, _, err = svc.Show(ctx, shop.ID)
	require.NoError(t, err)
}

func TestShopService_Delete_BlockedByOrders(t *testing.T) {
	svc, db := setupShopService(t)
	defer testutil.CleanupTestDB(t, db)
	ctx := context.Background()

	shop, err := svc.Create(ctx, CreateShopRequest{Name: "Biosen Dakar"}, nil)
	require.NoError(t, err)

	result, err := db.Exec(`
		INSERT INTO employees (shop_id, name, active) VALUES (?, 'Awa Diop', 1)`, shop.ID)
	require.NoError(t, err)
	employeeID, err := result.LastInsertId()
	require.NoError(t, err)

	_, err = db.Exec(`
		INSERT INTO orders (number, shop_id, employee_id, type, status, total, order_date)
		VALUES ('CMD-2025-00001', ?, ?, 'in_store', 'open', 0.00, CURDATE())`,
		shop.ID, employeeID)
	require.NoError(t, err)

	err = svc.Delete(ctx, shop.ID)
	_, ok := apperrors.IsConflictError(err)
	assert.True(t, ok, "expected conflict error, got %v", err)
}

func TestShopService_Delete_Unreferenced(t *testing.T) {
	svc, db := setupShopService(t)
	defer testutil.CleanupTestDB(t, db)
	ctx := context.Background()

	shop, err := svc.Create(ctx, CreateShopRequest{Name: "Biosen Thies"}, nil)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, shop.ID))

	_, _, err = svc.Show(ctx, shop.ID)
	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok, "expected not found, got %v", err)
}

func TestShopService_ToggleStatus(t *testing.T) {
	svc, db := setupShopService(t)
	defer testutil.CleanupTestDB(t, db)
	ctx := context.Background()

	shop, err := svc.Create(ctx, CreateShopRequest{Name: "Biosen Dakar"}, nil)
	require.NoError(t, err)
	require.True(t, shop.Active)

	active, err := svc.ToggleStatus(ctx, shop.ID)
	require.NoError(t, err)
	assert.False(t, active)

	active, err = svc.ToggleStatus(ctx, shop.ID)
	require.NoError(t, err)
	assert.True(t, active)
}
