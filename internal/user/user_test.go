package user

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"biosen/internal/auth"
	"biosen/internal/domain"
	apperrors "biosen/internal/errors"
	"biosen/internal/testutil"
	"biosen/internal/upload"
)

// Unit Tests

func TestNewMySQLRepository(t *testing.T) {
	db := &sql.DB{}
	repo := NewMySQLRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

// Integration Tests

func setupUserService(t *testing.T) (*Service, *sql.DB) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)

	storage := upload.NewStorage(t.TempDir(), zap.NewNop())
	return NewService(NewMySQLRepository(db), storage, zap.NewNop()), db
}

func seedUserShop(t *testing.T, db *sql.DB) int64 {
	result, err := db.Exec(`INSERT INTO shops (name, active) VALUES ('Biosen Dakar', 1)`)
	require.NoError(t, err)
	id, err := result.LastInsertId()
	require.NoError(t, err)
	return id
}

func TestUserService_Create_Manager(t *testing.T) {
	svc, db := setupUserService(t)
	defer testutil.CleanupTestDB(t, db)
	ctx := context.Background()

	shopID := seedUserShop(t, db)

	u, err := svc.Create(ctx, CreateRequest{
		Name:     "Fatou Ndiaye",
		Email:    "fatou@biosen.local",
		Password: "secret123",
		Role:     domain.RoleManager,
		ShopID:   &shopID,
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, domain.RoleManager, u.Role)
	require.NotNil(t, u.ShopID)
	assert.Equal(t, shopID, *u.ShopID)
	assert.True(t, u.Active)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secret123")))
}

func TestUserService_Create_ManagerNeedsShop(t *testing.T) {
	svc, db := setupUserService(t)
	defer testutil.CleanupTestDB(t, db)

	_, err := svc.Create(context.Background(), CreateRequest{
		Name:     "Fatou Ndiaye",
		Email:    "fatou@biosen.local",
		Password: "secret123",
		Role:     domain.RoleManager,
	}, nil)
	_, ok := apperrors.IsValidationError(err)
	assert.True(t, ok, "expected validation error, got %v", err)
}

func TestUserService_Create_AdminAndClerkCarryNoShop(t *testing.T) {
	svc, db := setupUserService(t)
	defer testutil.CleanupTestDB(t, db)
	ctx := context.Background()

	shopID := seedUserShop(t, db)

	// A shop passed for an admin or a clerk is discarded.
	admin, err := svc.Create(ctx, CreateRequest{
		Name:     "Admin",
		Email:    "admin@biosen.local",
		Password: "secret123",
		Role:     domain.RoleAdmin,
		ShopID:   &shopID,
	}, nil)
	require.NoError(t, err)
	assert.Nil(t, admin.ShopID)

	clerk, err := svc.Create(ctx, CreateRequest{
		Name:     "Saisisseur",
		Email:    "clerk@biosen.local",
		Password: "secret123",
		Role:     domain.RoleClerk,
		ShopID:   &shopID,
	}, nil)
	require.NoError(t, err)
	assert.Nil(t, clerk.ShopID)
}

func TestUserService_Create_RejectsDuplicateEmailAndBadRole(t *testing.T) {
	svc, db := setupUserService(t)
	defer testutil.CleanupTestDB(t, db)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateRequest{
		Name:     "Admin",
		Email:    "admin@biosen.local",
		Password: "secret123",
		Role:     domain.RoleAdmin,
	}, nil)
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateRequest{
		Name:     "Other",
		Email:    "admin@biosen.local",
		Password: "secret123",
		Role:     domain.RoleAdmin,
	}, nil)
	_, ok := apperrors.IsValidationError(err)
	assert.True(t, ok, "expected validation error, got %v", err)

	_, err = svc.Create(ctx, CreateRequest{
		Name:     "Other",
		Email:    "other@biosen.local",
		Password: "secret123",
		Role:     "superuser",
	}, nil)
	_, ok = apperrors.IsValidationError(err)
	assert.True(t, ok, "expected validation error, got %v", err)
}

func TestUserService_ChangeRole(t *testing.T) {
	svc, db := setupUserService(t)
	defer testutil.CleanupTestDB(t, db)
	ctx := context.Background()

	shopID := seedUserShop(t, db)

	u, err := svc.Create(ctx, CreateRequest{
		Name:     "Fatou Ndiaye",
		Email:    "fatou@biosen.local",
		Password: "secret123",
		Role:     domain.RoleManager,
		ShopID:   &shopID,
	}, nil)
	require.NoError(t, err)

	// Promoting to admin drops the shop attachment.
	promoted, err := svc.ChangeRole(ctx, u.ID, ChangeRoleRequest{Role: domain.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, promoted.Role)
	assert.Nil(t, promoted.ShopID)

	// Back to manager reuses the supplied shop.
	demoted, err := svc.ChangeRole(ctx, u.ID, ChangeRoleRequest{Role: domain.RoleManager, ShopID: &shopID})
	require.NoError(t, err)
	require.NotNil(t, demoted.ShopID)
	assert.Equal(t, shopID, *demoted.ShopID)
}

func TestUserService_ToggleActive_NotOnSelf(t *testing.T) {
	svc, db := setupUserService(t)
	defer testutil.CleanupTestDB(t, db)
	ctx := context.Background()

	u, err := svc.Create(ctx, CreateRequest{
		Name:     "Admin",
		Email:    "admin@biosen.local",
		Password: "secret123",
		Role:     domain.RoleAdmin,
	}, nil)
	require.NoError(t, err)

	self := auth.Identity{UserID: u.ID, Role: "admin"}
	_, err = svc.ToggleActive(ctx, self, u.ID)
	_, ok := apperrors.IsForbiddenError(err)
	assert.True(t, ok, "expected forbidden, got %v", err)

	other := auth.Identity{UserID: u.ID + 1, Role: "admin"}
	toggled, err := svc.ToggleActive(ctx, other, u.ID)
	require.NoError(t, err)
	assert.False(t, toggled.Active)
}

func TestUserService_Delete_NotOnSelf(t *testing.T) {
	svc, db := setupUserService(t)
	defer testutil.CleanupTestDB(t, db)
	ctx := context.Background()

	u, err := svc.Create(ctx, CreateRequest{
		Name:     "Admin",
		Email:    "admin@biosen.local",
		Password: "secret123",
		Role:     domain.RoleAdmin,
	}, nil)
	require.NoError(t, err)

	_, err = db.Exec(`
		INSERT INTO api_tokens (user_id, token_hash, name) VALUES (?, 'deadbeef', 'test')`, u.ID)
	require.NoError(t, err)

	self := auth.Identity{UserID: u.ID, Role: "admin"}
	err = svc.Delete(ctx, self, u.ID)
	_, ok := apperrors.IsForbiddenError(err)
	assert.True(t, ok, "expected forbidden, got %v", err)

	other := auth.Identity{UserID: u.ID + 1, Role: "admin"}
	require.NoError(t, svc.Delete(ctx, other, u.ID))

	// Account and its tokens are gone.
	_, err = svc.Show(ctx, u.ID)
	_, ok = apperrors.IsNotFoundError(err)
	assert.True(t, ok, "expected not found, got %v", err)

	var tokens int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM api_tokens WHERE user_id = ?`, u.ID).Scan(&tokens))
	assert.Equal(t, 0, tokens)
}
