package driver

import (
	"context"
	"database/sql"
	"fmt"

	"biosen/internal/commons"
	"biosen/internal/domain"
	apperrors "biosen/internal/errors"
)

type ListFilter struct {
	ShopID    *int64
	Search    string
	Available *bool
	Active    *bool
	Page      commons.Page
}

type MySQLRepository struct {
	db *sql.DB
}

func NewMySQLRepository(db *sql.DB) *MySQLRepository {
	return &MySQLRepository{db: db}
}

const driverColumns = `id, shop_id, name, phone, available, active, created_at, updated_at`

func scanDriver(row interface{ Scan(...interface{}) error }) (domain.Driver, error) {
	var d domain.Driver
	err := row.Scan(&d.ID, &d.ShopID, &d.Name, &d.Phone, &d.Available,
		&d.Active, &d.CreatedAt, &d.UpdatedAt)
	return d, err
}

func (r *MySQLRepository) List(ctx context.Context, f ListFilter) ([]domain.Driver, int, error) {
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
	if f.Available != nil {
		where += " AND available = ?"
		args = append(args, *f.Available)
	}
	if f.Active != nil {
		where += " AND active = ?"
		args = append(args, *f.Active)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM drivers "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting drivers: %w", err)
	}

	query := fmt.Sprintf("SELECT %s FROM drivers %s ORDER BY name LIMIT ? OFFSET ?", driverColumns, where)
	args = append(args, f.Page.Limit(), f.Page.Offset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("querying drivers: %w", err)
	}
	defer rows.Close()

	var drivers []domain.Driver
	for rows.Next() {
		d, err := scanDriver(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning driver row: %w", err)
		}
		drivers = append(drivers, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating driver rows: %w", err)
	}

	return drivers, total, nil
}

// Available lists active drivers currently free for a delivery.
func (r *MySQLRepository) Available(ctx context.Context, shopID *int64) ([]domain.Driver, error) {
	query := fmt.Sprintf("SELECT %s FROM drivers WHERE available = 1 AND active = 1", driverColumns)
	args := []interface{}{}
	if shopID != nil {
		query += " AND shop_id = ?"
		args = append(args, *shopID)
	}
	query += " ORDER BY name"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying available drivers: %w", err)
	}
	defer rows.Close()

	var drivers []domain.Driver
	for rows.Next() {
		d, err := scanDriver(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning driver row: %w", err)
		}
		drivers = append(drivers, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating driver rows: %w", err)
	}

	return drivers, nil
}

func (r *MySQLRepository) FindByID(ctx context.Context, id int64) (*domain.Driver, error) {
	query := fmt.Sprintf("SELECT %s FROM drivers WHERE id = ?", driverColumns)

	d, err := scanDriver(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("driver with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying driver by id: %w", err)
	}
	return &d, nil
}

func (r *MySQLRepository) Insert(ctx context.Context, d domain.Driver) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO drivers (shop_id, name, phone, available, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, NOW(), NOW())`,
		d.ShopID, d.Name, d.Phone, d.Available, d.Active)
	if err != nil {
		return 0, fmt.Errorf("inserting driver: %w", err)
	}
	return result.LastInsertId()
}

func (r *MySQLRepository) Update(ctx context.Context, d domain.Driver) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE drivers SET name = ?, phone = ?, available = ?, active = ?, updated_at = NOW()
		WHERE id = ?`,
		d.Name, d.Phone, d.Available, d.Active, d.ID)
	if err != nil {
		return fmt.Errorf("updating driver: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if affected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("driver with id %d not found", d.ID))
	}
	return nil
}

// ToggleAvailable flips the availability flag in place.
func (r *MySQLRepository) ToggleAvailable(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE drivers SET available = NOT available, updated_at = NOW() WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("toggling driver availability: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if affected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("driver with id %d not found", id))
	}
	return nil
}

func (r *MySQLRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM drivers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting driver: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if affected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("driver with id %d not found", id))
	}
	return nil
}

func (r *MySQLRepository) CountOrders(ctx context.Context, id int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM orders WHERE driver_id = ?`, id).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting driver orders: %w", err)
	}
	return count, nil
}
