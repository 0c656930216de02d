package product

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"biosen/internal/auth"
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

func setupProductService(t *testing.T) (*Service, *sql.DB) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)

	storage := upload.NewStorage(t.TempDir(), zap.NewNop())
	return NewService(NewMySQLRepository(db), storage, zap.NewNop()), db
}

func seedProductFixture(t *testing.T, db *sql.DB) (shopID, employeeID, productID int64) {
	insert := func(query string, args ...interface{}) int64 {
		result, err := db.Exec(query, args...)
		require.NoError(t, err)
		id, err := result.LastInsertId()
		require.NoError(t, err)
		return id
	}

	shopID = insert(`INSERT INTO shops (name, active) VALUES ('Biosen Dakar', 1)`)
	employeeID = insert(`
		INSERT INTO employees (shop_id, name, active) VALUES (?, 'Awa Diop', 1)`, shopID)
	productID = insert(`
		INSERT INTO products (shop_id, name, price, stock, active)
		VALUES (?, 'Tisane Kinkeliba', 500.00, 10, 1)`, shopID)
	return shopID, employeeID, productID
}

func TestProductService_Delete_BlockedByOrderLines(t *testing.T) {
	svc, db := setupProductService(t)
	defer testutil.CleanupTestDB(t, db)
	ctx := context.Background()

	shopID, employeeID, productID := seedProductFixture(t, db)

	result, err := db.Exec(`
		INSERT INTO orders (number, shop_id, employee_id, type, status, total, order_date)
		VALUES ('CMD-2025-00001', ?, ?, 'in_store', 'open', 500.00, CURDATE())`,
		shopID, employeeID)
	require.NoError(t, err)
	orderID, err := result.LastInsertId()
	require.NoError(t, err)

	_, err = db.Exec(`
		INSERT INTO order_lines (order_id, product_id, quantity, unit_price, subtotal)
		VALUES (?, ?, 1, 500.00, 500.00)`, orderID, productID)
	require.NoError(t, err)

	admin := auth.Identity{UserID: 1, Role: "admin"}

	err = svc.Delete(ctx, admin, productID)
	_, ok := apperrors.IsConflictError(err)
	assert.True(t, ok, "expected conflict error, got %v", err)

	// The row must still be there.
	_, err = svc.Show(ctx, admin, productID)
	require.NoError(t, err)
}

func TestProductService_Delete_Unreferenced(t *testing.T) {
	svc, db := setupProductService(t)
	defer testutil.CleanupTestDB(t, db)
	ctx := context.Background()

	_, _, productID := seedProductFixture(t, db)
	admin := auth.Identity{UserID: 1, Role: "admin"}

	require.NoError(t, svc.Delete(ctx, admin, productID))

	_, err := svc.Show(ctx, admin, productID)
	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok, "expected not found, got %v", err)
}

func TestProductService_Show_ForeignShopForbidden(t *testing.T) {
	svc, db := setupProductService(t)
	defer testutil.CleanupTestDB(t, db)

	_, _, productID := seedProductFixture(t, db)

	otherShop := int64(9999)
	manager := auth.Identity{UserID: 2, Role: "manager", ShopID: &otherShop}

	_, err := svc.Show(context.Background(), manager, productID)
	_, ok := apperrors.IsForbiddenError(err)
	assert.True(t, ok, "expected forbidden, got %v", err)
}
