package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"biosen/internal/commons"
	"biosen/internal/domain"
	apperrors "biosen/internal/errors"
)

type MiddlewareRepository interface {
	FindToken(ctx context.Context, tokenHash string) (*tokenRow, error)
	FindUserByID(ctx context.Context, id int64) (*domain.User, error)
	ShopActive(ctx context.Context, shopID int64) (bool, error)
	TouchToken(ctx context.Context, tokenID int64) error
}

type Middleware struct {
	repo     MiddlewareRepository
	logger   *zap.Logger
	tokenTTL time.Duration
}

func NewMiddleware(repo MiddlewareRepository, logger *zap.Logger, tokenTTL time.Duration) *Middleware {
	return &Middleware{
		repo:     repo,
		logger:   logger,
		tokenTTL: tokenTTL,
	}
}

// Authenticate resolves the bearer token into an Identity and stores it
// in the request context. Inactive accounts and managers of deactivated
// shops are rejected here so no handler has to re-check.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			commons.WriteMessage(w, m.logger, http.StatusUnauthorized, "authorization token not provided")
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			commons.WriteMessage(w, m.logger, http.StatusUnauthorized, "invalid authorization header format")
			return
		}

		token, err := m.repo.FindToken(r.Context(), HashToken(parts[1]))
		if err != nil {
			commons.WriteMessage(w, m.logger, http.StatusUnauthorized, "invalid authorization token")
			return
		}

		if m.tokenTTL > 0 && time.Since(token.CreatedAt) > m.tokenTTL {
			commons.WriteMessage(w, m.logger, http.StatusUnauthorized, "authorization token expired")
			return
		}

		user, err := m.repo.FindUserByID(r.Context(), token.UserID)
		if err != nil {
			commons.WriteMessage(w, m.logger, http.StatusUnauthorized, "invalid authorization token")
			return
		}

		if !user.Active {
			commons.WriteMessage(w, m.logger, http.StatusForbidden, "account has been deactivated")
			return
		}

		if user.IsManager() {
			if user.ShopID == nil {
				commons.WriteMessage(w, m.logger, http.StatusForbidden, "account is not attached to a shop")
				return
			}
			active, err := m.repo.ShopActive(r.Context(), *user.ShopID)
			if err != nil {
				commons.WriteError(w, m.logger, err)
				return
			}
			if !active {
				commons.WriteMessage(w, m.logger, http.StatusForbidden, "shop has been deactivated")
				return
			}
		}

		if err := m.repo.TouchToken(r.Context(), token.ID); err != nil {
			m.logger.Warn("failed to touch token", zap.Int64("tokenId", token.ID), zap.Error(err))
		}

		identity := Identity{
			UserID:  user.ID,
			Name:    user.Name,
			Email:   user.Email,
			Role:    user.Role,
			ShopID:  user.ShopID,
			TokenID: token.ID,
		}

		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
	})
}

// RequireRoles gates a route group to the given roles.
func (m *Middleware) RequireRoles(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := FromContext(r.Context())
			if !ok {
				commons.WriteMessage(w, m.logger, http.StatusUnauthorized, "authorization token not provided")
				return
			}

			if !allowed[id.Role] {
				commons.WriteError(w, m.logger, apperrors.NewForbiddenError("insufficient role"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (m *Middleware) RequireAdmin(next http.Handler) http.Handler {
	return m.RequireRoles(domain.RoleAdmin)(next)
}

// RequireBackOffice covers everything except the intake routes, which
// additionally admit clerks.
func (m *Middleware) RequireBackOffice(next http.Handler) http.Handler {
	return m.RequireRoles(domain.RoleAdmin, domain.RoleManager)(next)
}
