package category

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

const categoryColumns = `id, shop_id, name, description, active, created_at, updated_at`

func scanCategory(row interface{ Scan(...interface{}) error }) (domain.Category, error) {
	var c domain.Category
	err := row.Scan(&c.ID, &c.ShopID, &c.Name, &c.Description, &c.Active, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (r *MySQLRepository) List(ctx context.Context, f ListFilter) ([]domain.Category, int, error) {
	where := "WHERE 1=1"
	args := []interface{}{}

	if f.ShopID != nil {
		where += " AND shop_id = ?"
		args = append(args, *f.ShopID)
	}
	if f.Search != "" {
		where += " AND name LIKE ?"
		args = append(args, "%"+f.Search+"%")
	}
	if f.Active != nil {
		where += " AND active = ?"
		args = append(args, *f.Active)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM categories "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting categories: %w", err)
	}

	query := fmt.Sprintf("SELECT %s FROM categories %s ORDER BY name LIMIT ? OFFSET ?", categoryColumns, where)
	args = append(args, f.Page.Limit(), f.Page.Offset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("querying categories: %w", err)
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning category row: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating category rows: %w", err)
	}

	return categories, total, nil
}

func (r *MySQLRepository) FindByID(ctx context.Context, id int64) (*domain.Category, error) {
	query := fmt.Sprintf("SELECT %s FROM categories WHERE id = ?", categoryColumns)

	c, err := scanCategory(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("category with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying category by id: %w", err)
	}
	return &c, nil
}

func (r *MySQLRepository) Insert(ctx context.Context, c domain.Category) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO categories (shop_id, name, description, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, NOW(), NOW())`,
		c.ShopID, c.Name, c.Description, c.Active)
	if err != nil {
		return 0, fmt.Errorf("inserting category: %w", err)
	}
	return result.LastInsertId()
}

func (r *MySQLRepository) Update(ctx context.Context, c domain.Category) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE categories SET name = ?, description = ?, active = ?, updated_at = NOW()
		WHERE id = ?`,
		c.Name, c.Description, c.Active, c.ID)
	if err != nil {
		return fmt.Errorf("updating category: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if affected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("category with id %d not found", c.ID))
	}
	return nil
}

func (r *MySQLRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting category: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if affected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("category with id %d not found", id))
	}
	return nil
}

func (r *MySQLRepository) CountProducts(ctx context.Context, id int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM products WHERE category_id = ?`, id).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting category products: %w", err)
	}
	return count, nil
}
