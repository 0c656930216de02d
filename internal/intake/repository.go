package intake

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"biosen/internal/commons"
	"biosen/internal/domain"
	apperrors "biosen/internal/errors"
)

// Period narrows a listing to a calendar window relative to now.
type Period string

const (
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

type ListFilter struct {
	Date      *time.Time
	Period    Period
	Search    string
	EnteredBy int64
	Page      commons.Page
}

type MySQLRepository struct {
	db *sql.DB
}

func NewMySQLRepository(db *sql.DB) *MySQLRepository {
	return &MySQLRepository{db: db}
}

const intakeColumns = `id, phone, client_name, address, salesperson, products, entered_by, created_at, updated_at`

func scanIntakeOrder(row interface{ Scan(...interface{}) error }) (domain.IntakeOrder, error) {
	var o domain.IntakeOrder
	err := row.Scan(&o.ID, &o.Phone, &o.ClientName, &o.Address, &o.Salesperson,
		&o.Products, &o.EnteredBy, &o.CreatedAt, &o.UpdatedAt)
	return o, err
}

func buildWhere(f ListFilter) (string, []interface{}) {
	where := "WHERE 1=1"
	args := []interface{}{}

	if f.Date != nil {
		where += " AND DATE(created_at) = ?"
		args = append(args, f.Date.Format("2006-01-02"))
	}
	switch f.Period {
	case PeriodWeek:
		where += " AND YEARWEEK(created_at, 1) = YEARWEEK(CURDATE(), 1)"
	case PeriodMonth:
		where += " AND MONTH(created_at) = MONTH(CURDATE()) AND YEAR(created_at) = YEAR(CURDATE())"
	case PeriodYear:
		where += " AND YEAR(created_at) = YEAR(CURDATE())"
	}
	if f.Search != "" {
		where += " AND (phone LIKE ? OR client_name LIKE ?)"
		args = append(args, "%"+f.Search+"%", "%"+f.Search+"%")
	}
	if f.EnteredBy > 0 {
		where += " AND entered_by = ?"
		args = append(args, f.EnteredBy)
	}

	return where, args
}

func (r *MySQLRepository) List(ctx context.Context, f ListFilter) ([]domain.IntakeOrder, int, error) {
	where, args := buildWhere(f)

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM intake_orders "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting intake orders: %w", err)
	}

	query := fmt.Sprintf("SELECT %s FROM intake_orders %s ORDER BY created_at DESC LIMIT ? OFFSET ?",
		intakeColumns, where)
	args = append(args, f.Page.Limit(), f.Page.Offset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("querying intake orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.IntakeOrder
	for rows.Next() {
		o, err := scanIntakeOrder(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning intake order row: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating intake order rows: %w", err)
	}

	return orders, total, nil
}

func (r *MySQLRepository) FindByID(ctx context.Context, id int64) (*domain.IntakeOrder, error) {
	query := fmt.Sprintf("SELECT %s FROM intake_orders WHERE id = ?", intakeColumns)

	o, err := scanIntakeOrder(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("intake order with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying intake order by id: %w", err)
	}
	return &o, nil
}

func (r *MySQLRepository) Insert(ctx context.Context, o domain.IntakeOrder) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO intake_orders (phone, client_name, address, salesperson, products, entered_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, NOW(), NOW())`,
		o.Phone, o.ClientName, o.Address, o.Salesperson, o.Products, o.EnteredBy)
	if err != nil {
		return 0, fmt.Errorf("inserting intake order: %w", err)
	}
	return result.LastInsertId()
}

func (r *MySQLRepository) Update(ctx context.Context, o domain.IntakeOrder) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE intake_orders SET phone = ?, client_name = ?, address = ?, salesperson = ?, products = ?, updated_at = NOW()
		WHERE id = ?`,
		o.Phone, o.ClientName, o.Address, o.Salesperson, o.Products, o.ID)
	if err != nil {
		return fmt.Errorf("updating intake order: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if affected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("intake order with id %d not found", o.ID))
	}
	return nil
}

func (r *MySQLRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM intake_orders WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting intake order: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if affected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("intake order with id %d not found", id))
	}
	return nil
}

// EntererNames maps entered_by user ids to display names.
func (r *MySQLRepository) EntererNames(ctx context.Context) (map[int64]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT u.id, u.name FROM users u
		WHERE u.id IN (SELECT DISTINCT entered_by FROM intake_orders)`)
	if err != nil {
		return nil, fmt.Errorf("querying enterer names: %w", err)
	}
	defer rows.Close()

	names := map[int64]string{}
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("scanning enterer name row: %w", err)
		}
		names[id] = name
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating enterer name rows: %w", err)
	}
	return names, nil
}

func (r *MySQLRepository) Stats(ctx context.Context) (*Stats, error) {
	var s Stats
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(DATE(created_at) = CURDATE()), 0),
		       COALESCE(SUM(MONTH(created_at) = MONTH(CURDATE()) AND YEAR(created_at) = YEAR(CURDATE())), 0)
		FROM intake_orders`).Scan(&s.Total, &s.Today, &s.ThisMonth)
	if err != nil {
		return nil, fmt.Errorf("querying intake stats: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT o.entered_by, COALESCE(u.name, ''), COUNT(*)
		FROM intake_orders o
		LEFT JOIN users u ON u.id = o.entered_by
		GROUP BY o.entered_by, u.name
		ORDER BY COUNT(*) DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying intake enterer breakdown: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ec EntererCount
		if err := rows.Scan(&ec.UserID, &ec.Name, &ec.Count); err != nil {
			return nil, fmt.Errorf("scanning enterer count row: %w", err)
		}
		s.ByEnterer = append(s.ByEnterer, ec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating enterer count rows: %w", err)
	}

	return &s, nil
}
