package invoice

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"biosen/internal/commons"
	"biosen/internal/domain"
	apperrors "biosen/internal/errors"
)

type ListFilter struct {
	ShopID *int64
	Status string
	Date   *time.Time
	Month  int
	Year   int
	Search string
	Page   commons.Page
}

// Row is an invoice joined with the order it bills.
type Row struct {
	Invoice     domain.Invoice
	OrderNumber string
	ShopID      int64
	ClientName  *string
}

type MySQLRepository struct {
	db *sql.DB
}

func NewMySQLRepository(db *sql.DB) *MySQLRepository {
	return &MySQLRepository{db: db}
}

const invoiceColumns = `i.id, i.order_id, i.number, i.issued_at, i.total, i.status,
	i.created_at, i.updated_at, o.number, o.shop_id, c.full_name`

const invoiceJoins = `FROM invoices i
	JOIN orders o ON o.id = i.order_id
	LEFT JOIN clients c ON c.id = o.client_id`

func scanRow(row interface{ Scan(...interface{}) error }) (Row, error) {
	var r Row
	var total string
	err := row.Scan(&r.Invoice.ID, &r.Invoice.OrderID, &r.Invoice.Number, &r.Invoice.IssuedAt,
		&total, &r.Invoice.Status, &r.Invoice.CreatedAt, &r.Invoice.UpdatedAt,
		&r.OrderNumber, &r.ShopID, &r.ClientName)
	if err != nil {
		return r, err
	}
	r.Invoice.Total, err = decimal.NewFromString(total)
	return r, err
}

func (r *MySQLRepository) List(ctx context.Context, f ListFilter) ([]Row, int, error) {
	where := "WHERE 1=1"
	args := []interface{}{}

	if f.ShopID != nil {
		where += " AND o.shop_id = ?"
		args = append(args, *f.ShopID)
	}
	if f.Status != "" {
		where += " AND i.status = ?"
		args = append(args, f.Status)
	}
	if f.Date != nil {
		where += " AND DATE(i.issued_at) = ?"
		args = append(args, f.Date.Format("2006-01-02"))
	}
	if f.Month > 0 && f.Year > 0 {
		where += " AND MONTH(i.issued_at) = ? AND YEAR(i.issued_at) = ?"
		args = append(args, f.Month, f.Year)
	} else if f.Year > 0 {
		where += " AND YEAR(i.issued_at) = ?"
		args = append(args, f.Year)
	}
	if f.Search != "" {
		where += " AND (i.number LIKE ? OR c.full_name LIKE ?)"
		args = append(args, "%"+f.Search+"%", "%"+f.Search+"%")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) "+invoiceJoins+" "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting invoices: %w", err)
	}

	query := fmt.Sprintf("SELECT %s %s %s ORDER BY i.issued_at DESC LIMIT ? OFFSET ?",
		invoiceColumns, invoiceJoins, where)
	args = append(args, f.Page.Limit(), f.Page.Offset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("querying invoices: %w", err)
	}
	defer rows.Close()

	var invoices []Row
	for rows.Next() {
		row, err := scanRow(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning invoice row: %w", err)
		}
		invoices = append(invoices, row)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating invoice rows: %w", err)
	}

	return invoices, total, nil
}

func (r *MySQLRepository) FindByID(ctx context.Context, id int64) (*Row, error) {
	query := fmt.Sprintf("SELECT %s %s WHERE i.id = ?", invoiceColumns, invoiceJoins)

	row, err := scanRow(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("invoice with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying invoice by id: %w", err)
	}
	return &row, nil
}
