package employee

import (
	"context"
	"database/sql"
	"fmt"

	"biosen/internal/commons"
	"biosen/internal/domain"
	apperrors "biosen/internal/errors"
)

type ListFilter struct {
	ShopID *int64
	Search string
	Active *bool
	Page   commons.Page
}

type MySQLRepository struct {
	db *sql.DB
}

func NewMySQLRepository(db *sql.DB) *MySQLRepository {
	return &MySQLRepository{db: db}
}

const employeeColumns = `id, shop_id, name, phone, role_title, photo, active, created_at, updated_at`

func scanEmployee(row interface{ Scan(...interface{}) error }) (domain.Employee, error) {
	var e domain.Employee
	err := row.Scan(&e.ID, &e.ShopID, &e.Name, &e.Phone, &e.RoleTitle, &e.Photo,
		&e.Active, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

func (r *MySQLRepository) List(ctx context.Context, f ListFilter) ([]domain.Employee, int, error) {
	where := "WHERE 1=1"
	args := []interface{}{}

	if f.ShopID != nil {
		where += " AND shop_id = ?"
		args = append(args, *f.ShopID)
	}
	if f.Search != "" {
		where += " AND (name LIKE ? OR phone LIKE ?)"
		args = append(args, "%"+f.Search+"%", "%"+f.Search+"%")
	}
	if f.Active != nil {
		where += " AND active = ?"
		args = append(args, *f.Active)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM employees "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting employees: %w", err)
	}

	query := fmt.Sprintf("SELECT %s FROM employees %s ORDER BY name LIMIT ? OFFSET ?", employeeColumns, where)
	args = append(args, f.Page.Limit(), f.Page.Offset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("querying employees: %w", err)
	}
	defer rows.Close()

	var employees []domain.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning employee row: %w", err)
		}
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating employee rows: %w", err)
	}

	return employees, total, nil
}

func (r *MySQLRepository) FindByID(ctx context.Context, id int64) (*domain.Employee, error) {
	query := fmt.Sprintf("SELECT %s FROM employees WHERE id = ?", employeeColumns)

	e, err := scanEmployee(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("employee with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying employee by id: %w", err)
	}
	return &e, nil
}

func (r *MySQLRepository) Insert(ctx context.Context, e domain.Employee) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO employees (shop_id, name, phone, role_title, photo, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, NOW(), NOW())`,
		e.ShopID, e.Name, e.Phone, e.RoleTitle, e.Photo, e.Active)
	if err != nil {
		return 0, fmt.Errorf("inserting employee: %w", err)
	}
	return result.LastInsertId()
}

func (r *MySQLRepository) Update(ctx context.Context, e domain.Employee) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE employees SET name = ?, phone = ?, role_title = ?, photo = ?, active = ?, updated_at = NOW()
		WHERE id = ?`,
		e.Name, e.Phone, e.RoleTitle, e.Photo, e.Active, e.ID)
	if err != nil {
		return fmt.Errorf("updating employee: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if affected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("employee with id %d not found", e.ID))
	}
	return nil
}

func (r *MySQLRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM employees WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting employee: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if affected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("employee with id %d not found", id))
	}
	return nil
}

func (r *MySQLRepository) CountOrders(ctx context.Context, id int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM orders WHERE employee_id = ?`, id).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting employee orders: %w", err)
	}
	return count, nil
}
