package client

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
	Page   commons.Page
}

type MySQLRepository struct {
	db *sql.DB
}

func NewMySQLRepository(db *sql.DB) *MySQLRepository {
	return &MySQLRepository{db: db}
}

const clientColumns = `id, shop_id, full_name, phone, address, created_at, updated_at`

func scanClient(row interface{ Scan(...interface{}) error }) (domain.Client, error) {
	var c domain.Client
	err := row.Scan(&c.ID, &c.ShopID, &c.FullName, &c.Phone, &c.Address,
		&c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (r *MySQLRepository) List(ctx context.Context, f ListFilter) ([]domain.Client, int, error) {
	where := "WHERE 1=1"
	args := []interface{}{}

	if f.ShopID != nil {
		where += " AND shop_id = ?"
		args = append(args, *f.ShopID)
	}
	if f.Search != "" {
		where += " AND (full_name LIKE ? OR phone LIKE ?)"
		args = append(args, "%"+f.Search+"%", "%"+f.Search+"%")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM clients "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting clients: %w", err)
	}

	query := fmt.Sprintf("SELECT %s FROM clients %s ORDER BY full_name LIMIT ? OFFSET ?", clientColumns, where)
	args = append(args, f.Page.Limit(), f.Page.Offset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("querying clients: %w", err)
	}
	defer rows.Close()

	var clients []domain.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning client row: %w", err)
		}
		clients = append(clients, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating client rows: %w", err)
	}

	return clients, total, nil
}

func (r *MySQLRepository) FindByID(ctx context.Context, id int64) (*domain.Client, error) {
	query := fmt.Sprintf("SELECT %s FROM clients WHERE id = ?", clientColumns)

	c, err := scanClient(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("client with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying client by id: %w", err)
	}
	return &c, nil
}

func (r *MySQLRepository) Insert(ctx context.Context, c domain.Client) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO clients (shop_id, full_name, phone, address, created_at, updated_at)
		VALUES (?, ?, ?, ?, NOW(), NOW())`,
		c.ShopID, c.FullName, c.Phone, c.Address)
	if err != nil {
		return 0, fmt.Errorf("inserting client: %w", err)
	}
	return result.LastInsertId()
}

func (r *MySQLRepository) Update(ctx context.Context, c domain.Client) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE clients SET full_name = ?, phone = ?, address = ?, updated_at = NOW()
		WHERE id = ?`,
		c.FullName, c.Phone, c.Address, c.ID)
	if err != nil {
		return fmt.Errorf("updating client: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if affected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("client with id %d not found", c.ID))
	}
	return nil
}

func (r *MySQLRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM clients WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting client: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if affected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("client with id %d not found", id))
	}
	return nil
}

func (r *MySQLRepository) CountOrders(ctx context.Context, id int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM orders WHERE client_id = ?`, id).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting client orders: %w", err)
	}
	return count, nil
}
