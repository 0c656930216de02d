package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"biosen/internal/domain"
)

type MySQLInvoiceRepository struct {
	db *sql.DB
}

func NewMySQLInvoiceRepository(db *sql.DB) *MySQLInvoiceRepository {
	return &MySQLInvoiceRepository{db: db}
}

func (r *MySQLInvoiceRepository) Insert(ctx context.Context, tx *sql.Tx, i domain.Invoice) (int64, error) {
	result, err := tx.ExecContext(ctx, `
		INSERT INTO invoices (order_id, number, issued_at, total, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, NOW(), NOW())`,
		i.OrderID, i.Number, i.IssuedAt, i.Total.String(), i.Status)
	if err != nil {
		return 0, fmt.Errorf("inserting invoice: %w", err)
	}
	return result.LastInsertId()
}

func (r *MySQLInvoiceRepository) FindByOrderID(ctx context.Context, orderID int64) (*domain.Invoice, error) {
	var i domain.Invoice
	var total string
	err := r.db.QueryRowContext(ctx, `
		SELECT id, order_id, number, issued_at, total, status, created_at, updated_at
		FROM invoices WHERE order_id = ?`, orderID).Scan(
		&i.ID, &i.OrderID, &i.Number, &i.IssuedAt, &total, &i.Status, &i.CreatedAt, &i.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying invoice by order id: %w", err)
	}

	if i.Total, err = decimal.NewFromString(total); err != nil {
		return nil, fmt.Errorf("parsing invoice total: %w", err)
	}
	return &i, nil
}
