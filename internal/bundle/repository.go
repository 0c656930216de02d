package bundle

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

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

const bundleColumns = `id, shop_id, name, description, active, created_at, updated_at`

func scanBundle(row interface{ Scan(...interface{}) error }) (domain.Bundle, error) {
	var b domain.Bundle
	err := row.Scan(&b.ID, &b.ShopID, &b.Name, &b.Description, &b.Active,
		&b.CreatedAt, &b.UpdatedAt)
	return b, err
}

func (r *MySQLRepository) List(ctx context.Context, f ListFilter) ([]domain.Bundle, int, error) {
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
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM bundles "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting bundles: %w", err)
	}

	query := fmt.Sprintf("SELECT %s FROM bundles %s ORDER BY name LIMIT ? OFFSET ?", bundleColumns, where)
	args = append(args, f.Page.Limit(), f.Page.Offset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("querying bundles: %w", err)
	}
	defer rows.Close()

	var bundles []domain.Bundle
	for rows.Next() {
		b, err := scanBundle(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning bundle row: %w", err)
		}
		bundles = append(bundles, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating bundle rows: %w", err)
	}

	for i := range bundles {
		products, err := r.findProducts(ctx, bundles[i].ID)
		if err != nil {
			return nil, 0, err
		}
		bundles[i].Products = products
	}

	return bundles, total, nil
}

func (r *MySQLRepository) FindByID(ctx context.Context, id int64) (*domain.Bundle, error) {
	query := fmt.Sprintf("SELECT %s FROM bundles WHERE id = ?", bundleColumns)

	b, err := scanBundle(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("bundle with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying bundle by id: %w", err)
	}

	b.Products, err = r.findProducts(ctx, id)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *MySQLRepository) findProducts(ctx context.Context, bundleID int64) ([]domain.BundleProduct, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT product_id, quantity FROM bundle_products WHERE bundle_id = ? ORDER BY product_id`, bundleID)
	if err != nil {
		return nil, fmt.Errorf("querying bundle products: %w", err)
	}
	defer rows.Close()

	var products []domain.BundleProduct
	for rows.Next() {
		var p domain.BundleProduct
		if err := rows.Scan(&p.ProductID, &p.Quantity); err != nil {
			return nil, fmt.Errorf("scanning bundle product row: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating bundle product rows: %w", err)
	}
	return products, nil
}

// ProductNames resolves display names for the given product ids.
func (r *MySQLRepository) ProductNames(ctx context.Context, ids []int64) (map[int64]string, error) {
	names := make(map[int64]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name FROM products WHERE id IN ("+placeholders+")", args...)
	if err != nil {
		return nil, fmt.Errorf("querying product names: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("scanning product name row: %w", err)
		}
		names[id] = name
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating product name rows: %w", err)
	}
	return names, nil
}

// CountShopProducts verifies the given product ids all belong to the shop.
func (r *MySQLRepository) CountShopProducts(ctx context.Context, shopID int64, ids []int64) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := []interface{}{shopID}
	for _, id := range ids {
		args = append(args, id)
	}

	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM products WHERE shop_id = ? AND id IN ("+placeholders+")", args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting shop products: %w", err)
	}
	return count, nil
}

// Insert creates the bundle and its product rows in one transaction.
func (r *MySQLRepository) Insert(ctx context.Context, b domain.Bundle) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		INSERT INTO bundles (shop_id, name, description, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, NOW(), NOW())`,
		b.ShopID, b.Name, b.Description, b.Active)
	if err != nil {
		return 0, fmt.Errorf("inserting bundle: %w", err)
	}

	bundleID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting bundle id: %w", err)
	}

	if err := insertProducts(ctx, tx, bundleID, b.Products); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing transaction: %w", err)
	}
	return bundleID, nil
}

// Update rewrites the bundle header and replaces its product rows in one
// transaction.
func (r *MySQLRepository) Update(ctx context.Context, b domain.Bundle, replaceProducts bool) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE bundles SET name = ?, description = ?, active = ?, updated_at = NOW()
		WHERE id = ?`,
		b.Name, b.Description, b.Active, b.ID)
	if err != nil {
		return fmt.Errorf("updating bundle: %w", err)
	}

	if _, err := result.RowsAffected(); err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if replaceProducts {
		if _, err := tx.ExecContext(ctx, `DELETE FROM bundle_products WHERE bundle_id = ?`, b.ID); err != nil {
			return fmt.Errorf("clearing bundle products: %w", err)
		}
		if err := insertProducts(ctx, tx, b.ID, b.Products); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func insertProducts(ctx context.Context, tx *sql.Tx, bundleID int64, products []domain.BundleProduct) error {
	for _, p := range products {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO bundle_products (bundle_id, product_id, quantity) VALUES (?, ?, ?)`,
			bundleID, p.ProductID, p.Quantity)
		if err != nil {
			return fmt.Errorf("inserting bundle product: %w", err)
		}
	}
	return nil
}

func (r *MySQLRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM bundle_products WHERE bundle_id = ?`, id); err != nil {
		return fmt.Errorf("deleting bundle products: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM bundles WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting bundle: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if affected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("bundle with id %d not found", id))
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}
