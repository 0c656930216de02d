package auth

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"biosen/internal/domain"
	apperrors "biosen/internal/errors"
)

type MySQLAuthRepository struct {
	db *sql.DB
}

func NewMySQLAuthRepository(db *sql.DB) *MySQLAuthRepository {
	return &MySQLAuthRepository{db: db}
}

const userColumns = `
	u.id, u.name, u.email, u.password_hash, u.role, u.shop_id, u.photo,
	u.active, u.created_at, u.updated_at
`

func scanUser(row interface{ Scan(...interface{}) error }) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.ShopID,
		&u.Photo, &u.Active, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *MySQLAuthRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT` + userColumns + `FROM users u WHERE u.email = ?`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying user by email: %w", err)
	}

	return user, nil
}

func (r *MySQLAuthRepository) FindUserByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `SELECT` + userColumns + `FROM users u WHERE u.id = ?`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("user with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying user by id: %w", err)
	}

	return user, nil
}

// ShopActive returns whether the shop exists and is active. Managers of
// a deactivated shop are locked out at authentication time.
func (r *MySQLAuthRepository) ShopActive(ctx context.Context, shopID int64) (bool, error) {
	var active bool
	err := r.db.QueryRowContext(ctx, `SELECT active FROM shops WHERE id = ?`, shopID).Scan(&active)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("querying shop active flag: %w", err)
	}
	return active, nil
}

func (r *MySQLAuthRepository) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ? WHERE id = ?`, passwordHash, userID)
	if err != nil {
		return fmt.Errorf("updating password: %w", err)
	}
	return nil
}

type tokenRow struct {
	ID        int64
	UserID    int64
	CreatedAt time.Time
}

func (r *MySQLAuthRepository) InsertToken(ctx context.Context, userID int64, tokenHash, name string) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO api_tokens (user_id, token_hash, name, created_at) VALUES (?, ?, ?, NOW())`,
		userID, tokenHash, name)
	if err != nil {
		return 0, fmt.Errorf("inserting token: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting token id: %w", err)
	}
	return id, nil
}

func (r *MySQLAuthRepository) FindToken(ctx context.Context, tokenHash string) (*tokenRow, error) {
	var t tokenRow
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, created_at FROM api_tokens WHERE token_hash = ?`,
		tokenHash).Scan(&t.ID, &t.UserID, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError("token not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying token: %w", err)
	}
	return &t, nil
}

func (r *MySQLAuthRepository) TouchToken(ctx context.Context, tokenID int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE api_tokens SET last_used_at = NOW() WHERE id = ?`, tokenID)
	if err != nil {
		return fmt.Errorf("touching token: %w", err)
	}
	return nil
}

func (r *MySQLAuthRepository) DeleteToken(ctx context.Context, tokenID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM api_tokens WHERE id = ?`, tokenID)
	if err != nil {
		return fmt.Errorf("deleting token: %w", err)
	}
	return nil
}

func (r *MySQLAuthRepository) DeleteTokensForUser(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM api_tokens WHERE user_id = ?`, userID)
	if err != nil {
		return fmt.Errorf("deleting user tokens: %w", err)
	}
	return nil
}

func (r *MySQLAuthRepository) DeleteOtherTokens(ctx context.Context, userID, keepTokenID int64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM api_tokens WHERE user_id = ? AND id != ?`, userID, keepTokenID)
	if err != nil {
		return fmt.Errorf("deleting other tokens: %w", err)
	}
	return nil
}

func (r *MySQLAuthRepository) UpsertPasswordReset(ctx context.Context, email, tokenHash string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO password_resets (email, token_hash, created_at)
		VALUES (?, ?, NOW())
		ON DUPLICATE KEY UPDATE token_hash = VALUES(token_hash), created_at = NOW()`,
		email, tokenHash)
	if err != nil {
		return fmt.Errorf("upserting password reset: %w", err)
	}
	return nil
}

func (r *MySQLAuthRepository) FindPasswordReset(ctx context.Context, email string) (tokenHash string, createdAt time.Time, err error) {
	err = r.db.QueryRowContext(ctx,
		`SELECT token_hash, created_at FROM password_resets WHERE email = ?`,
		email).Scan(&tokenHash, &createdAt)
	if err == sql.ErrNoRows {
		return "", time.Time{}, apperrors.NewNotFoundError("password reset not found")
	}
	if err != nil {
		return "", time.Time{}, fmt.Errorf("querying password reset: %w", err)
	}
	return tokenHash, createdAt, nil
}

func (r *MySQLAuthRepository) DeletePasswordReset(ctx context.Context, email string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM password_resets WHERE email = ?`, email)
	if err != nil {
		return fmt.Errorf("deleting password reset: %w", err)
	}
	return nil
}
