package expense

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
	Date   *time.Time
	Month  int
	Year   int
	Search string
	Page   commons.Page
}

type MySQLRepository struct {
	db *sql.DB
}

func NewMySQLRepository(db *sql.DB) *MySQLRepository {
	return &MySQLRepository{db: db}
}

const expenseColumns = `id, shop_id, description, amount, category, spent_on, created_at, updated_at`

func scanExpense(row interface{ Scan(...interface{}) error }) (domain.Expense, error) {
	var e domain.Expense
	var amount string
	err := row.Scan(&e.ID, &e.ShopID, &e.Description, &amount, &e.Category,
		&e.SpentOn, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return e, err
	}
	e.Amount, err = decimal.NewFromString(amount)
	return e, err
}

func buildWhere(f ListFilter) (string, []interface{}) {
	where := "WHERE 1=1"
	args := []interface{}{}

	if f.ShopID != nil {
		where += " AND shop_id = ?"
		args = append(args, *f.ShopID)
	}
	if f.Date != nil {
		where += " AND spent_on = ?"
		args = append(args, f.Date.Format("2006-01-02"))
	}
	if f.Month > 0 && f.Year > 0 {
		where += " AND MONTH(spent_on) = ? AND YEAR(spent_on) = ?"
		args = append(args, f.Month, f.Year)
	} else if f.Year > 0 {
		where += " AND YEAR(spent_on) = ?"
		args = append(args, f.Year)
	}
	if f.Search != "" {
		where += " AND (description LIKE ? OR category LIKE ?)"
		args = append(args, "%"+f.Search+"%", "%"+f.Search+"%")
	}

	return where, args
}

func (r *MySQLRepository) List(ctx context.Context, f ListFilter) ([]domain.Expense, int, error) {
	where, args := buildWhere(f)

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM expenses "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting expenses: %w", err)
	}

	query := fmt.Sprintf("SELECT %s FROM expenses %s ORDER BY spent_on DESC, id DESC LIMIT ? OFFSET ?",
		expenseColumns, where)
	args = append(args, f.Page.Limit(), f.Page.Offset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("querying expenses: %w", err)
	}
	defer rows.Close()

	var expenses []domain.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning expense row: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating expense rows: %w", err)
	}

	return expenses, total, nil
}

// Total sums the amounts matching the filter, pagination ignored.
func (r *MySQLRepository) Total(ctx context.Context, f ListFilter) (decimal.Decimal, error) {
	where, args := buildWhere(f)

	var total string
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(amount), 0) FROM expenses "+where, args...).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("summing expenses: %w", err)
	}
	return decimal.NewFromString(total)
}

func (r *MySQLRepository) FindByID(ctx context.Context, id int64) (*domain.Expense, error) {
	query := fmt.Sprintf("SELECT %s FROM expenses WHERE id = ?", expenseColumns)

	e, err := scanExpense(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("expense with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying expense by id: %w", err)
	}
	return &e, nil
}

func (r *MySQLRepository) Insert(ctx context.Context, e domain.Expense) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO expenses (shop_id, description, amount, category, spent_on, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, NOW(), NOW())`,
		e.ShopID, e.Description, e.Amount.String(), e.Category, e.SpentOn.Format("2006-01-02"))
	if err != nil {
		return 0, fmt.Errorf("inserting expense: %w", err)
	}
	return result.LastInsertId()
}

func (r *MySQLRepository) Update(ctx context.Context, e domain.Expense) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE expenses SET description = ?, amount = ?, category = ?, spent_on = ?, updated_at = NOW()
		WHERE id = ?`,
		e.Description, e.Amount.String(), e.Category, e.SpentOn.Format("2006-01-02"), e.ID)
	if err != nil {
		return fmt.Errorf("updating expense: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if affected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("expense with id %d not found", e.ID))
	}
	return nil
}

func (r *MySQLRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting expense: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if affected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("expense with id %d not found", id))
	}
	return nil
}
