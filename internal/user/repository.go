package user

import (
	"context"
	"database/sql"
	"fmt"

	"biosen/internal/commons"
	"biosen/internal/domain"
	apperrors "biosen/internal/errors"
)

type ListFilter struct {
	Role   string
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

const userColumns = `id, name, email, password_hash, role, shop_id, photo, active, created_at, updated_at`

func scanUser(row interface{ Scan(...interface{}) error }) (domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.ShopID,
		&u.Photo, &u.Active, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func (r *MySQLRepository) List(ctx context.Context, f ListFilter) ([]domain.User, int, error) {
	where := "WHERE 1=1"
	args := []interface{}{}

	if f.Role != "" {
		where += " AND role = ?"
		args = append(args, f.Role)
	}
	if f.ShopID != nil {
		where += " AND shop_id = ?"
		args = append(args, *f.ShopID)
	}
	if f.Search != "" {
		where += " AND (name LIKE ? OR email LIKE ?)"
		args = append(args, "%"+f.Search+"%", "%"+f.Search+"%")
	}
	if f.Active != nil {
		where += " AND active = ?"
		args = append(args, *f.Active)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting users: %w", err)
	}

	query := fmt.Sprintf("SELECT %s FROM users %s ORDER BY created_at DESC LIMIT ? OFFSET ?", userColumns, where)
	args = append(args, f.Page.Limit(), f.Page.Offset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("querying users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning user row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating user rows: %w", err)
	}

	return users, total, nil
}

func (r *MySQLRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE id = ?", userColumns)

	u, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("user with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying user by id: %w", err)
	}
	return &u, nil
}

// EmailTaken reports whether another user already owns the address.
func (r *MySQLRepository) EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE email = ? AND id != ?`, email, excludeID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking email uniqueness: %w", err)
	}
	return count > 0, nil
}

func (r *MySQLRepository) ShopExists(ctx context.Context, shopID int64) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM shops WHERE id = ?`, shopID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking shop existence: %w", err)
	}
	return count > 0, nil
}

func (r *MySQLRepository) ShopName(ctx context.Context, shopID int64) (*string, error) {
	var name string
	err := r.db.QueryRowContext(ctx,
		`SELECT name FROM shops WHERE id = ?`, shopID).Scan(&name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying shop name: %w", err)
	}
	return &name, nil
}

func (r *MySQLRepository) Insert(ctx context.Context, u domain.User) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO users (name, email, password_hash, role, shop_id, photo, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, NOW(), NOW())`,
		u.Name, u.Email, u.PasswordHash, u.Role, u.ShopID, u.Photo, u.Active)
	if err != nil {
		return 0, fmt.Errorf("inserting user: %w", err)
	}
	return result.LastInsertId()
}

func (r *MySQLRepository) Update(ctx context.Context, u domain.User) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE users SET name = ?, email = ?, password_hash = ?, role = ?, shop_id = ?,
		       photo = ?, active = ?, updated_at = NOW()
		WHERE id = ?`,
		u.Name, u.Email, u.PasswordHash, u.Role, u.ShopID, u.Photo, u.Active, u.ID)
	if err != nil {
		return fmt.Errorf("updating user: %w", err)
	}

	if _, err := result.RowsAffected(); err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	return nil
}

// Delete removes the account together with its API tokens.
func (r *MySQLRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM api_tokens WHERE user_id = ?`, id); err != nil {
		return fmt.Errorf("deleting user tokens: %w", err)
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if affected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("user with id %d not found", id))
	}
	return nil
}
