package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "biosen/internal/errors"
)

func TestNewToken(t *testing.T) {
	plain, hash, err := NewToken()
	require.NoError(t, err)

	assert.Len(t, plain, 64)
	assert.Len(t, hash, 64)
	assert.NotEqual(t, plain, hash)
	assert.Equal(t, hash, HashToken(plain))

	plain2, _, err := NewToken()
	require.NoError(t, err)
	assert.NotEqual(t, plain, plain2)
}

func TestShopScope(t *testing.T) {
	shop := int64(3)
	admin := Identity{Role: "admin"}
	manager := Identity{Role: "manager", ShopID: &shop}

	assert.Nil(t, ShopScope(admin, 0))

	scoped := ShopScope(admin, 7)
	require.NotNil(t, scoped)
	assert.Equal(t, int64(7), *scoped)

	// Managers are pinned to their own shop whatever they ask for.
	scoped = ShopScope(manager, 7)
	require.NotNil(t, scoped)
	assert.Equal(t, int64(3), *scoped)
}

func TestResolveShopID(t *testing.T) {
	shop := int64(3)
	admin := Identity{Role: "admin"}
	manager := Identity{Role: "manager", ShopID: &shop}

	_, err := ResolveShopID(admin, 0)
	_, ok := apperrors.IsValidationError(err)
	assert.True(t, ok)

	id, err := ResolveShopID(admin, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), id)

	id, err = ResolveShopID(manager, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(3), id)

	_, err = ResolveShopID(Identity{Role: "manager"}, 5)
	_, ok = apperrors.IsForbiddenError(err)
	assert.True(t, ok)
}

func TestEnsureShopAccess(t *testing.T) {
	shop := int64(3)
	manager := Identity{Role: "manager", ShopID: &shop}

	assert.NoError(t, EnsureShopAccess(Identity{Role: "admin"}, 9))
	assert.NoError(t, EnsureShopAccess(manager, 3))

	err := EnsureShopAccess(manager, 4)
	_, ok := apperrors.IsForbiddenError(err)
	assert.True(t, ok)
}
