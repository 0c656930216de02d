package service

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"biosen/internal/auth"
	"biosen/internal/domain"
	apperrors "biosen/internal/errors"
	"biosen/internal/order/dto"
	"biosen/internal/order/repository"
	"biosen/internal/testutil"
)

func setupService(t *testing.T) (*LifecycleService, *sql.DB) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)

	svc := NewLifecycleService(
		db,
		repository.NewMySQLOrderRepository(db),
		repository.NewMySQLStockRepository(db),
		repository.NewMySQLSequenceRepository(db),
		repository.NewMySQLInvoiceRepository(db),
		zap.NewNop(),
	)
	return svc, db
}

type fixture struct {
	shopID     int64
	employeeID int64
	clientID   int64
	productA   int64 // price 500.00, stock 10
	productB   int64 // price 1000.00, stock 4
}

func seedFixture(t *testing.T, db *sql.DB) fixture {
	var f fixture

	insert := func(query string, args ...interface{}) int64 {
		result, err := db.Exec(query, args...)
		require.NoError(t, err)
		id, err := result.LastInsertId()
		require.NoError(t, err)
		return id
	}

	f.shopID = insert(`INSERT INTO shops (name, active) VALUES ('Biosen Dakar', 1)`)
	f.employeeID = insert(`
		INSERT INTO employees (shop_id, name, active) VALUES (?, 'Awa Diop', 1)`, f.shopID)
	f.clientID = insert(`
		INSERT INTO clients (shop_id, full_name, phone) VALUES (?, 'Moussa Ba', '771234567')`, f.shopID)
	f.productA = insert(`
		INSERT INTO products (shop_id, name, price, stock, active)
		VALUES (?, 'Tisane Kinkeliba', 500.00, 10, 1)`, f.shopID)
	f.productB = insert(`
		INSERT INTO products (shop_id, name, price, stock, active)
		VALUES (?, 'Sirop Bissap', 1000.00, 4, 1)`, f.shopID)

	return f
}

func adminIdentity() auth.Identity {
	return auth.Identity{UserID: 1, Name: "Admin", Role: "admin"}
}

func productStock(t *testing.T, db *sql.DB, id int64) int {
	var stock int
	err := db.QueryRow(`SELECT stock FROM products WHERE id = ?`, id).Scan(&stock)
	require.NoError(t, err)
	return stock
}

func createOrder(t *testing.T, svc *LifecycleService, f fixture) *domain.Order {
	order, err := svc.Create(context.Background(), adminIdentity(), dto.CreateOrderRequest{
		ShopID:     f.shopID,
		ClientID:   &f.clientID,
		EmployeeID: f.employeeID,
		Type:       domain.OrderTypeInStore,
		Lines: []dto.LineRequest{
			{ProductID: f.productA, Quantity: 2},
			{ProductID: f.productB, Quantity: 1},
		},
	})
	require.NoError(t, err)
	return order
}

func TestLifecycleService_Create(t *testing.T) {
	svc, db := setupService(t)
	defer testutil.CleanupTestDB(t, db)
	f := seedFixture(t, db)

	order := createOrder(t, svc, f)

	assert.Equal(t, domain.OrderStatusOpen, order.Status)
	assert.Equal(t, fmt.Sprintf("CMD-%d-00001", time.Now().Year()), order.Number)
	assert.True(t, order.Total.Equal(decimal.NewFromInt(2000)),
		"expected total 2000, got %s", order.Total)
	require.Len(t, order.Lines, 2)
	assert.True(t, order.Lines[0].UnitPrice.Equal(decimal.NewFromInt(500)))
	assert.True(t, order.Lines[0].Subtotal.Equal(decimal.NewFromInt(1000)))

	// Stock is only a quote until validation.
	assert.Equal(t, 10, productStock(t, db, f.productA))
	assert.Equal(t, 4, productStock(t, db, f.productB))
}

func TestLifecycleService_Create_NumbersAreSequential(t *testing.T) {
	svc, db := setupService(t)
	defer testutil.CleanupTestDB(t, db)
	f := seedFixture(t, db)

	first := createOrder(t, svc, f)
	second := createOrder(t, svc, f)

	year := time.Now().Year()
	assert.Equal(t, fmt.Sprintf("CMD-%d-00001", year), first.Number)
	assert.Equal(t, fmt.Sprintf("CMD-%d-00002", year), second.Number)
}

func TestLifecycleService_Create_RejectsBadLines(t *testing.T) {
	svc, db := setupService(t)
	defer testutil.CleanupTestDB(t, db)
	f := seedFixture(t, db)
	ctx := context.Background()

	// Unknown product.
	_, err := svc.Create(ctx, adminIdentity(), dto.CreateOrderRequest{
		ShopID:     f.shopID,
		EmployeeID: f.employeeID,
		Type:       domain.OrderTypeInStore,
		Lines:      []dto.LineRequest{{ProductID: 99999, Quantity: 1}},
	})
	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok, "expected not found, got %v", err)

	// Inactive product.
	_, err = db.Exec(`UPDATE products SET active = 0 WHERE id = ?`, f.productA)
	require.NoError(t, err)

	_, err = svc.Create(ctx, adminIdentity(), dto.CreateOrderRequest{
		ShopID:     f.shopID,
		EmployeeID: f.employeeID,
		Type:       domain.OrderTypeInStore,
		Lines:      []dto.LineRequest{{ProductID: f.productA, Quantity: 1}},
	})
	_, ok = apperrors.IsValidationError(err)
	assert.True(t, ok, "expected validation error, got %v", err)

	// No lines at all.
	_, err = svc.Create(ctx, adminIdentity(), dto.CreateOrderRequest{
		ShopID:     f.shopID,
		EmployeeID: f.employeeID,
		Type:       domain.OrderTypeInStore,
	})
	_, ok = apperrors.IsValidationError(err)
	assert.True(t, ok, "expected validation error, got %v", err)
}

func TestLifecycleService_Create_RejectsForeignShopProduct(t *testing.T) {
	svc, db := setupService(t)
	defer testutil.CleanupTestDB(t, db)
	f := seedFixture(t, db)

	result, err := db.Exec(`INSERT INTO shops (name, active) VALUES ('Biosen Thies', 1)`)
	require.NoError(t, err)
	otherShop, err := result.LastInsertId()
	require.NoError(t, err)

	result, err = db.Exec(`
		INSERT INTO products (shop_id, name, price, stock, active)
		VALUES (?, 'Foreign', 100.00, 5, 1)`, otherShop)
	require.NoError(t, err)
	foreignProduct, err := result.LastInsertId()
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), adminIdentity(), dto.CreateOrderRequest{
		ShopID:     f.shopID,
		EmployeeID: f.employeeID,
		Type:       domain.OrderTypeInStore,
		Lines:      []dto.LineRequest{{ProductID: foreignProduct, Quantity: 1}},
	})
	_, ok := apperrors.IsValidationError(err)
	assert.True(t, ok, "expected validation error, got %v", err)
}

func TestLifecycleService_TotalImmuneToLaterPriceChange(t *testing.T) {
	svc, db := setupService(t)
	defer testutil.CleanupTestDB(t, db)
	f := seedFixture(t, db)

	order := createOrder(t, svc, f)

	_, err := db.Exec(`UPDATE products SET price = 9999.00 WHERE id = ?`, f.productA)
	require.NoError(t, err)

	got, _, _, err := svc.Show(context.Background(), adminIdentity(), order.ID)
	require.NoError(t, err)
	assert.True(t, got.Total.Equal(decimal.NewFromInt(2000)),
		"expected captured total 2000, got %s", got.Total)
	assert.True(t, got.Lines[0].UnitPrice.Equal(decimal.NewFromInt(500)))
}

func TestLifecycleService_Validate(t *testing.T) {
	svc, db := setupService(t)
	defer testutil.CleanupTestDB(t, db)
	f := seedFixture(t, db)

	order := createOrder(t, svc, f)

	validated, invoice, print, err := svc.Validate(context.Background(), adminIdentity(), order.ID)
	require.NoError(t, err)

	assert.Equal(t, domain.OrderStatusValidated, validated.Status)
	assert.NotNil(t, validated.ValidatedAt)

	require.NotNil(t, invoice)
	assert.Equal(t, fmt.Sprintf("FAC-%d-00001", time.Now().Year()), invoice.Number)
	assert.Equal(t, domain.InvoiceStatusActive, invoice.Status)
	assert.True(t, invoice.Total.Equal(validated.Total))

	require.NotNil(t, print)
	assert.Equal(t, invoice.Number, print.InvoiceNumber)
	assert.Equal(t, order.Number, print.OrderNumber)
	assert.Equal(t, "Biosen Dakar", print.ShopName)
	require.NotNil(t, print.ClientName)
	assert.Equal(t, "Moussa Ba", *print.ClientName)

	assert.Equal(t, 8, productStock(t, db, f.productA))
	assert.Equal(t, 3, productStock(t, db, f.productB))
}

func TestLifecycleService_Validate_Twice(t *testing.T) {
	svc, db := setupService(t)
	defer testutil.CleanupTestDB(t, db)
	f := seedFixture(t, db)
	ctx := context.Background()

	order := createOrder(t, svc, f)

	_, _, _, err := svc.Validate(ctx, adminIdentity(), order.ID)
	require.NoError(t, err)

	_, _, _, err = svc.Validate(ctx, adminIdentity(), order.ID)
	_, ok := apperrors.IsInvalidStateError(err)
	assert.True(t, ok, "expected invalid state error, got %v", err)

	// No double decrement.
	assert.Equal(t, 8, productStock(t, db, f.productA))
	assert.Equal(t, 3, productStock(t, db, f.productB))
}

func TestLifecycleService_CancelValidated_RestoresStock(t *testing.T) {
	svc, db := setupService(t)
	defer testutil.CleanupTestDB(t, db)
	f := seedFixture(t, db)
	ctx := context.Background()

	order := createOrder(t, svc, f)
	_, invoice, _, err := svc.Validate(ctx, adminIdentity(), order.ID)
	require.NoError(t, err)

	cancelled, err := svc.Cancel(ctx, adminIdentity(), order.ID, "client changed his mind")
	require.NoError(t, err)

	assert.Equal(t, domain.OrderStatusCancelled, cancelled.Status)
	assert.NotNil(t, cancelled.CancelledAt)
	require.NotNil(t, cancelled.CancelReason)
	assert.Equal(t, "client changed his mind", *cancelled.CancelReason)
	require.NotNil(t, cancelled.CancelledBy)
	assert.Equal(t, int64(1), *cancelled.CancelledBy)

	assert.Equal(t, 10, productStock(t, db, f.productA))
	assert.Equal(t, 4, productStock(t, db, f.productB))

	// The invoice row stays for audit, status untouched.
	var number, status string
	err = db.QueryRow(`SELECT number, status FROM invoices WHERE order_id = ?`, order.ID).
		Scan(&number, &status)
	require.NoError(t, err)
	assert.Equal(t, invoice.Number, number)
	assert.Equal(t, domain.InvoiceStatusActive, status)
}

func TestLifecycleService_CancelOpen_LeavesStockAlone(t *testing.T) {
	svc, db := setupService(t)
	defer testutil.CleanupTestDB(t, db)
	f := seedFixture(t, db)

	order := createOrder(t, svc, f)

	cancelled, err := svc.Cancel(context.Background(), adminIdentity(), order.ID, "duplicate entry")
	require.NoError(t, err)

	assert.Equal(t, domain.OrderStatusCancelled, cancelled.Status)
	assert.Equal(t, 10, productStock(t, db, f.productA))
	assert.Equal(t, 4, productStock(t, db, f.productB))
}

func TestLifecycleService_Cancel_RequiresReason(t *testing.T) {
	svc, db := setupService(t)
	defer testutil.CleanupTestDB(t, db)
	f := seedFixture(t, db)

	order := createOrder(t, svc, f)

	_, err := svc.Cancel(context.Background(), adminIdentity(), order.ID, "")
	_, ok := apperrors.IsValidationError(err)
	assert.True(t, ok, "expected validation error, got %v", err)
}

func TestLifecycleService_Cancel_Twice(t *testing.T) {
	svc, db := setupService(t)
	defer testutil.CleanupTestDB(t, db)
	f := seedFixture(t, db)
	ctx := context.Background()

	order := createOrder(t, svc, f)

	_, err := svc.Cancel(ctx, adminIdentity(), order.ID, "first")
	require.NoError(t, err)

	_, err = svc.Cancel(ctx, adminIdentity(), order.ID, "second")
	_, ok := apperrors.IsInvalidStateError(err)
	assert.True(t, ok, "expected invalid state error, got %v", err)
}

func TestLifecycleService_Update_OpenOnly(t *testing.T) {
	svc, db := setupService(t)
	defer testutil.CleanupTestDB(t, db)
	f := seedFixture(t, db)
	ctx := context.Background()

	order := createOrder(t, svc, f)

	// Replacing the lines recomputes the total at current prices.
	updated, err := svc.Update(ctx, adminIdentity(), order.ID, dto.UpdateOrderRequest{
		Lines: []dto.LineRequest{{ProductID: f.productB, Quantity: 3}},
	})
	require.NoError(t, err)
	assert.True(t, updated.Total.Equal(decimal.NewFromInt(3000)),
		"expected total 3000, got %s", updated.Total)
	require.Len(t, updated.Lines, 1)

	_, _, _, err = svc.Validate(ctx, adminIdentity(), order.ID)
	require.NoError(t, err)

	notes := "late edit"
	_, err = svc.Update(ctx, adminIdentity(), order.ID, dto.UpdateOrderRequest{Notes: &notes})
	_, ok := apperrors.IsInvalidStateError(err)
	assert.True(t, ok, "expected invalid state error, got %v", err)
}

func TestLifecycleService_Delete_OpenOnly(t *testing.T) {
	svc, db := setupService(t)
	defer testutil.CleanupTestDB(t, db)
	f := seedFixture(t, db)
	ctx := context.Background()

	order := createOrder(t, svc, f)
	_, _, _, err := svc.Validate(ctx, adminIdentity(), order.ID)
	require.NoError(t, err)

	err = svc.Delete(ctx, adminIdentity(), order.ID)
	_, ok := apperrors.IsInvalidStateError(err)
	assert.True(t, ok, "expected invalid state error, got %v", err)

	second := createOrder(t, svc, f)
	require.NoError(t, svc.Delete(ctx, adminIdentity(), second.ID))

	_, _, _, err = svc.Show(ctx, adminIdentity(), second.ID)
	_, ok = apperrors.IsNotFoundError(err)
	assert.True(t, ok, "expected not found, got %v", err)
}

func TestLifecycleService_ManagerCannotTouchOtherShop(t *testing.T) {
	svc, db := setupService(t)
	defer testutil.CleanupTestDB(t, db)
	f := seedFixture(t, db)
	ctx := context.Background()

	order := createOrder(t, svc, f)

	otherShop := f.shopID + 100
	manager := auth.Identity{UserID: 2, Name: "Manager", Role: "manager", ShopID: &otherShop}

	_, _, _, err := svc.Show(ctx, manager, order.ID)
	_, ok := apperrors.IsForbiddenError(err)
	assert.True(t, ok, "expected forbidden, got %v", err)

	_, _, _, err = svc.Validate(ctx, manager, order.ID)
	_, ok = apperrors.IsForbiddenError(err)
	assert.True(t, ok, "expected forbidden, got %v", err)
}
