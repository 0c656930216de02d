package auth

import (
	"context"

	apperrors "biosen/internal/errors"
)

// Identity is resolved once per request by the Authenticate middleware
// and carried explicitly through the context; nothing below the
// middleware re-derives who the caller is.
type Identity struct {
	UserID  int64
	Name    string
	Email   string
	Role    string
	ShopID  *int64
	TokenID int64
}

func (id Identity) IsAdmin() bool {
	return id.Role == "admin"
}

type contextKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(Identity)
	return id, ok
}

// ShopScope resolves the shop filter for list endpoints: an admin may ask
// for any shop (or all shops with 0), everyone else is pinned to their
// own.
func ShopScope(id Identity, requested int64) *int64 {
	if id.IsAdmin() {
		if requested > 0 {
			return &requested
		}
		return nil
	}
	return id.ShopID
}

// ResolveShopID picks the shop a write lands in. Admins must name one;
// managers always use their own, whatever the request says.
func ResolveShopID(id Identity, requested int64) (int64, error) {
	if id.IsAdmin() {
		if requested <= 0 {
			return 0, apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
				Field:   "shop_id",
				Message: "shop_id is required",
			})
		}
		return requested, nil
	}
	if id.ShopID == nil {
		return 0, apperrors.NewForbiddenError("account is not attached to a shop")
	}
	return *id.ShopID, nil
}

// EnsureShopAccess rejects cross-shop access for non-admin callers.
func EnsureShopAccess(id Identity, shopID int64) error {
	if id.IsAdmin() {
		return nil
	}
	if id.ShopID == nil || *id.ShopID != shopID {
		return apperrors.NewForbiddenError("access to another shop is not allowed")
	}
	return nil
}
