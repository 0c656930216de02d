package legacy

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"
)

const perPage = 50

// Filter mirrors the query string of the history page.
type Filter struct {
	DateFrom string
	DateTo   string
	Search   string
	Billed   string // "payee", "non_payee" or empty
	Page     int
}

// Row is one legacy order with its client, invoice and product detail.
type Row struct {
	ID            int64
	Code          string
	OrderDate     string
	Billed        bool
	Delivered     bool
	ClientName    *string
	ClientPhone   *string
	ClientAddress *string
	InvoiceRef    *string
	Invoiced      *string
	Collected     *string
	Remaining     *string
	InvoiceState  *string
	InvoiceDate   *string
	Products      *string
}

// Summary is the totals row above the listing.
type Summary struct {
	Orders    int
	Invoiced  decimal.Decimal
	Collected decimal.Decimal
	Billed    int
	Unbilled  int
}

type MySQLRepository struct {
	db *sql.DB
}

func NewMySQLRepository(db *sql.DB) *MySQLRepository {
	return &MySQLRepository{db: db}
}

func buildWhere(f Filter) (string, []interface{}) {
	where := "WHERE c.deleted_at IS NULL"
	args := []interface{}{}

	if f.DateFrom != "" {
		where += " AND DATE(c.date_commande) >= ?"
		args = append(args, f.DateFrom)
	}
	if f.DateTo != "" {
		where += " AND DATE(c.date_commande) <= ?"
		args = append(args, f.DateTo)
	}
	switch f.Billed {
	case "payee":
		where += " AND c.is_billed = 1"
	case "non_payee":
		where += " AND c.is_billed = 0"
	}
	if f.Search != "" {
		where += " AND (cl.name LIKE ? OR cl.phone LIKE ? OR c.code LIKE ?)"
		like := "%" + f.Search + "%"
		args = append(args, like, like, like)
	}

	return where, args
}

func (r *MySQLRepository) Count(ctx context.Context, f Filter) (int, error) {
	where, args := buildWhere(f)

	var total int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM commande_clients c
		LEFT JOIN clients cl ON cl.id = c.client_id `+where, args...).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("counting legacy orders: %w", err)
	}
	return total, nil
}

func (r *MySQLRepository) Summary(ctx context.Context, f Filter) (*Summary, error) {
	where, args := buildWhere(f)

	var s Summary
	var invoiced, collected sql.NullString
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       SUM(COALESCE(f.montant_facture, 0)),
		       SUM(COALESCE(f.montant_encaisse, 0)),
		       SUM(CASE WHEN c.is_billed = 1 THEN 1 ELSE 0 END),
		       SUM(CASE WHEN c.is_billed = 0 THEN 1 ELSE 0 END)
		FROM commande_clients c
		LEFT JOIN clients cl ON cl.id = c.client_id
		LEFT JOIN facture_clients f ON f.commande_client_id = c.id AND f.deleted_at IS NULL
		`+where, args...).Scan(&s.Orders, &invoiced, &collected, &s.Billed, &s.Unbilled)
	if err != nil {
		return nil, fmt.Errorf("querying legacy summary: %w", err)
	}

	s.Invoiced = decimal.Zero
	s.Collected = decimal.Zero
	if invoiced.Valid {
		if s.Invoiced, err = decimal.NewFromString(invoiced.String); err != nil {
			return nil, fmt.Errorf("parsing legacy invoiced total: %w", err)
		}
	}
	if collected.Valid {
		if s.Collected, err = decimal.NewFromString(collected.String); err != nil {
			return nil, fmt.Errorf("parsing legacy collected total: %w", err)
		}
	}
	return &s, nil
}

func (r *MySQLRepository) List(ctx context.Context, f Filter) ([]Row, error) {
	where, args := buildWhere(f)
	offset := (f.Page - 1) * perPage

	query := `
		SELECT c.id, c.code, DATE(c.date_commande), c.is_billed, c.delivered,
		       cl.name, cl.phone, cl.adress,
		       f.reference, f.montant_facture, f.montant_encaisse, f.montant_restant,
		       f.facture_state, DATE(f.date_facture),
		       (SELECT GROUP_CONCAT(CONCAT(a.name, ' x', acc.quantity, ' = ', acc.price * acc.quantity, 'F') SEPARATOR ' | ')
		        FROM article_commande_client acc
		        LEFT JOIN articles a ON a.id = acc.article_id
		        WHERE acc.commande_client_id = c.id AND acc.deleted_at IS NULL)
		FROM commande_clients c
		LEFT JOIN clients cl ON cl.id = c.client_id
		LEFT JOIN facture_clients f ON f.commande_client_id = c.id AND f.deleted_at IS NULL
		` + where + `
		ORDER BY c.date_commande DESC
		LIMIT ? OFFSET ?`
	args = append(args, perPage, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying legacy orders: %w", err)
	}
	defer rows.Close()

	var result []Row
	for rows.Next() {
		var row Row
		err := rows.Scan(&row.ID, &row.Code, &row.OrderDate, &row.Billed, &row.Delivered,
			&row.ClientName, &row.ClientPhone, &row.ClientAddress,
			&row.InvoiceRef, &row.Invoiced, &row.Collected, &row.Remaining,
			&row.InvoiceState, &row.InvoiceDate, &row.Products)
		if err != nil {
			return nil, fmt.Errorf("scanning legacy order row: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating legacy order rows: %w", err)
	}

	return result, nil
}
