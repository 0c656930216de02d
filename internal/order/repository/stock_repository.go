package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ProductRow is the slice of a product the order lifecycle needs.
type ProductRow struct {
	ID     int64
	ShopID int64
	Name   string
	Price  decimal.Decimal
	Stock  int
	Active bool
}

type MySQLStockRepository struct {
	db *sql.DB
}

func NewMySQLStockRepository(db *sql.DB) *MySQLStockRepository {
	return &MySQLStockRepository{db: db}
}

// FindByIDs reads the products without locking, for order creation where
// only the current price is copied.
func (r *MySQLStockRepository) FindByIDs(ctx context.Context, ids []int64) (map[int64]ProductRow, error) {
	return r.find(ctx, r.db.QueryContext, ids, false)
}

// FindForUpdate locks the product rows inside the given transaction.
// Rows are locked in ascending id order so concurrent validations that
// touch overlapping products cannot deadlock.
func (r *MySQLStockRepository) FindForUpdate(ctx context.Context, tx *sql.Tx, ids []int64) (map[int64]ProductRow, error) {
	return r.find(ctx, tx.QueryContext, ids, true)
}

type queryFunc func(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)

func (r *MySQLStockRepository) find(ctx context.Context, query queryFunc, ids []int64, lock bool) (map[int64]ProductRow, error) {
	products := make(map[int64]ProductRow, len(ids))
	if len(ids) == 0 {
		return products, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}

	q := fmt.Sprintf(`
		SELECT id, shop_id, name, price, stock, active
		FROM products
		WHERE id IN (%s)
		ORDER BY id`,
		strings.Join(placeholders, ", "))
	if lock {
		q += " FOR UPDATE"
	}

	rows, err := query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying products: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p ProductRow
		var price string
		if err := rows.Scan(&p.ID, &p.ShopID, &p.Name, &price, &p.Stock, &p.Active); err != nil {
			return nil, fmt.Errorf("scanning product row: %w", err)
		}
		if p.Price, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("parsing product price: %w", err)
		}
		products[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating product rows: %w", err)
	}

	return products, nil
}

// AdjustStock adds delta to a product's stock. Negative deltas are not
// floored at zero; the caller decides whether to warn.
func (r *MySQLStockRepository) AdjustStock(ctx context.Context, tx *sql.Tx, productID int64, delta int) error {
	result, err := tx.ExecContext(ctx,
		`UPDATE products SET stock = stock + ?, updated_at = NOW() WHERE id = ?`,
		delta, productID)
	if err != nil {
		return fmt.Errorf("adjusting product stock: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("product %d not found during stock adjustment", productID)
	}
	return nil
}
