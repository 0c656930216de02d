package shop

import (
	"context"
	"database/sql"
	"fmt"

	"biosen/internal/commons"
	"biosen/internal/domain"
	apperrors "biosen/internal/errors"
)

type MySQLRepository struct {
	db *sql.DB
}

func NewMySQLRepository(db *sql.DB) *MySQLRepository {
	return &MySQLRepository{db: db}
}

const shopColumns = `id, name, address, phone, logo, active, created_at, updated_at`

func scanShop(row interface{ Scan(...interface{}) error }) (domain.Shop, error) {
	var s domain.Shop
	err := row.Scan(&s.ID, &s.Name, &s.Address, &s.Phone, &s.Logo, &s.Active, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func (r *MySQLRepository) List(ctx context.Context, search string, page commons.Page) ([]domain.Shop, int, error) {
	where := "WHERE 1=1"
	args := []interface{}{}
	if search != "" {
		where += " AND name LIKE ?"
		args = append(args, "%"+search+"%")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM shops "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting shops: %w", err)
	}

	query := fmt.Sprintf("SELECT %s FROM shops %s ORDER BY name LIMIT ? OFFSET ?", shopColumns, where)
	args = append(args, page.Limit(), page.Offset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("querying shops: %w", err)
	}
	defer rows.Close()

	var shops []domain.Shop
	for rows.Next() {
		s, err := scanShop(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning shop row: %w", err)
		}
		shops = append(shops, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating shop rows: %w", err)
	}

	return shops, total, nil
}

func (r *MySQLRepository) FindByID(ctx context.Context, id int64) (*domain.Shop, error) {
	query := fmt.Sprintf("SELECT %s FROM shops WHERE id = ?", shopColumns)

	s, err := scanShop(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("shop with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying shop by id: %w", err)
	}
	return &s, nil
}

func (r *MySQLRepository) Insert(ctx context.Context, s domain.Shop) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO shops (name, address, phone, logo, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, NOW(), NOW())`,
		s.Name, s.Address, s.Phone, s.Logo, s.Active)
	if err != nil {
		return 0, fmt.Errorf("inserting shop: %w", err)
	}
	return result.LastInsertId()
}

func (r *MySQLRepository) Update(ctx context.Context, s domain.Shop) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE shops SET name = ?, address = ?, phone = ?, logo = ?, updated_at = NOW()
		WHERE id = ?`,
		s.Name, s.Address, s.Phone, s.Logo, s.ID)
	if err != nil {
		return fmt.Errorf("updating shop: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if affected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("shop with id %d not found", s.ID))
	}
	return nil
}

func (r *MySQLRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM shops WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting shop: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if affected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("shop with id %d not found", id))
	}
	return nil
}

func (r *MySQLRepository) ToggleActive(ctx context.Context, id int64) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE shops SET active = NOT active, updated_at = NOW() WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("toggling shop status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("getting rows affected: %w", err)
	}
	if affected == 0 {
		return false, apperrors.NewNotFoundError(fmt.Sprintf("shop with id %d not found", id))
	}

	var active bool
	if err := r.db.QueryRowContext(ctx, `SELECT active FROM shops WHERE id = ?`, id).Scan(&active); err != nil {
		return false, fmt.Errorf("reading shop status: %w", err)
	}
	return active, nil
}

type Counts struct {
	Users    int
	Products int
	Orders   int
}

func (r *MySQLRepository) Counts(ctx context.Context, id int64) (Counts, error) {
	var c Counts
	err := r.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users WHERE shop_id = ?),
			(SELECT COUNT(*) FROM products WHERE shop_id = ?),
			(SELECT COUNT(*) FROM orders WHERE shop_id = ?)`,
		id, id, id).Scan(&c.Users, &c.Products, &c.Orders)
	if err != nil {
		return Counts{}, fmt.Errorf("counting shop references: %w", err)
	}
	return c, nil
}
