package product

import (
	"context"
	"database/sql"
	"fmt"

	"biosen/internal/commons"
	"biosen/internal/domain"
	apperrors "biosen/internal/errors"
)

type ListFilter struct {
	ShopID     *int64
	CategoryID int64
	Search     string
	Active     *bool
	Page       commons.Page
}

type MySQLRepository struct {
	db *sql.DB
}

func NewMySQLRepository(db *sql.DB) *MySQLRepository {
	return &MySQLRepository{db: db}
}

const productColumns = `
	id, shop_id, category_id, name, description, price, stock,
	low_stock_threshold, image, active, created_at, updated_at
`

func scanProduct(row interface{ Scan(...interface{}) error }) (domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ID, &p.ShopID, &p.CategoryID, &p.Name, &p.Description, &p.Price,
		&p.Stock, &p.LowStockThreshold, &p.Image, &p.Active, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

func (r *MySQLRepository) List(ctx context.Context, f ListFilter) ([]domain.Product, int, error) {
	where := "WHERE 1=1"
	args := []interface{}{}

	if f.ShopID != nil {
		where += " AND shop_id = ?"
		args = append(args, *f.ShopID)
	}
	if f.CategoryID > 0 {
		where += " AND category_id = ?"
		args = append(args, f.CategoryID)
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
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM products "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting products: %w", err)
	}

	query := fmt.Sprintf("SELECT %s FROM products %s ORDER BY name LIMIT ? OFFSET ?", productColumns, where)
	args = append(args, f.Page.Limit(), f.Page.Offset())

	products, err := r.queryProducts(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// LowStock lists products sitting at or under their alert threshold.
func (r *MySQLRepository) LowStock(ctx context.Context, shopID *int64) ([]domain.Product, error) {
	where := "WHERE low_stock_threshold IS NOT NULL AND stock <= low_stock_threshold AND active = 1"
	args := []interface{}{}
	if shopID != nil {
		where += " AND shop_id = ?"
		args = append(args, *shopID)
	}

	query := fmt.Sprintf("SELECT %s FROM products %s ORDER BY stock ASC", productColumns, where)
	return r.queryProducts(ctx, query, args...)
}

func (r *MySQLRepository) queryProducts(ctx context.Context, query string, args ...interface{}) ([]domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning product row: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating product rows: %w", err)
	}
	return products, nil
}

func (r *MySQLRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := fmt.Sprintf("SELECT %s FROM products WHERE id = ?", productColumns)

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("product with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying product by id: %w", err)
	}
	return &p, nil
}

func (r *MySQLRepository) Insert(ctx context.Context, p domain.Product) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO products
			(shop_id, category_id, name, description, price, stock,
			 low_stock_threshold, image, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, NOW(), NOW())`,
		p.ShopID, p.CategoryID, p.Name, p.Description, p.Price, p.Stock,
		p.LowStockThreshold, p.Image, p.Active)
	if err != nil {
		return 0, fmt.Errorf("inserting product: %w", err)
	}
	return result.LastInsertId()
}

func (r *MySQLRepository) Update(ctx context.Context, p domain.Product) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE products SET
			category_id = ?, name = ?, description = ?, price = ?, stock = ?,
			low_stock_threshold = ?, image = ?, active = ?, updated_at = NOW()
		WHERE id = ?`,
		p.CategoryID, p.Name, p.Description, p.Price, p.Stock,
		p.LowStockThreshold, p.Image, p.Active, p.ID)
	if err != nil {
		return fmt.Errorf("updating product: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if affected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("product with id %d not found", p.ID))
	}
	return nil
}

func (r *MySQLRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting product: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if affected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("product with id %d not found", id))
	}
	return nil
}

func (r *MySQLRepository) CountOrderLines(ctx context.Context, id int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM order_lines WHERE product_id = ?`, id).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting product order lines: %w", err)
	}
	return count, nil
}

func (r *MySQLRepository) CategoryShop(ctx context.Context, categoryID int64) (int64, error) {
	var shopID int64
	err := r.db.QueryRowContext(ctx,
		`SELECT shop_id FROM categories WHERE id = ?`, categoryID).Scan(&shopID)
	if err == sql.ErrNoRows {
		return 0, apperrors.NewNotFoundError(fmt.Sprintf("category with id %d not found", categoryID))
	}
	if err != nil {
		return 0, fmt.Errorf("querying category shop: %w", err)
	}
	return shopID, nil
}
