package auth

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"biosen/internal/domain"
	apperrors "biosen/internal/errors"
)

const resetTokenTTL = time.Hour

type Mailer interface {
	SendPasswordReset(to, resetLink string) error
}

type Repository interface {
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
	FindUserByID(ctx context.Context, id int64) (*domain.User, error)
	ShopActive(ctx context.Context, shopID int64) (bool, error)
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
	InsertToken(ctx context.Context, userID int64, tokenHash, name string) (int64, error)
	DeleteToken(ctx context.Context, tokenID int64) error
	DeleteTokensForUser(ctx context.Context, userID int64) error
	DeleteOtherTokens(ctx context.Context, userID, keepTokenID int64) error
	UpsertPasswordReset(ctx context.Context, email, tokenHash string) error
	FindPasswordReset(ctx context.Context, email string) (string, time.Time, error)
	DeletePasswordReset(ctx context.Context, email string) error
}

type Service struct {
	repo     Repository
	mailer   Mailer
	logger   *zap.Logger
	resetURL string
}

func NewService(repo Repository, mailer Mailer, logger *zap.Logger, resetURL string) *Service {
	return &Service{
		repo:     repo,
		mailer:   mailer,
		logger:   logger,
		resetURL: resetURL,
	}
}

func (s *Service) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if email == "" || password == "" {
		return "", nil, apperrors.NewValidationError("validation failed",
			apperrors.ValidationDetail{Field: "email", Message: "email and password are required"})
	}

	user, err := s.repo.FindUserByEmail(ctx, email)
	if err != nil {
		if _, ok := apperrors.IsNotFoundError(err); ok {
			return "", nil, apperrors.NewValidationError("validation failed",
				apperrors.ValidationDetail{Field: "email", Message: "incorrect email"})
		}
		return "", nil, err
	}

	if !user.Active {
		return "", nil, apperrors.NewForbiddenError("account has been deactivated, contact the administrator")
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, apperrors.NewValidationError("validation failed",
			apperrors.ValidationDetail{Field: "password", Message: "incorrect password"})
	}

	if user.IsManager() {
		if user.ShopID == nil {
			return "", nil, apperrors.NewForbiddenError("account is not attached to a shop")
		}
		active, err := s.repo.ShopActive(ctx, *user.ShopID)
		if err != nil {
			return "", nil, err
		}
		if !active {
			return "", nil, apperrors.NewForbiddenError("shop has been deactivated")
		}
	}

	plain, hash, err := NewToken()
	if err != nil {
		return "", nil, err
	}

	if _, err := s.repo.InsertToken(ctx, user.ID, hash, "auth-token"); err != nil {
		return "", nil, err
	}

	s.logger.Info("user logged in", zap.Int64("userId", user.ID), zap.String("role", user.Role))
	return plain, user, nil
}

func (s *Service) Logout(ctx context.Context, id Identity) error {
	return s.repo.DeleteToken(ctx, id.TokenID)
}

func (s *Service) Me(ctx context.Context, id Identity) (*domain.User, error) {
	return s.repo.FindUserByID(ctx, id.UserID)
}

func (s *Service) ChangePassword(ctx context.Context, id Identity, current, next, confirm string) error {
	if details := validatePassword(next, confirm, "new_password"); len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}

	user, err := s.repo.FindUserByID(ctx, id.UserID)
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)) != nil {
		return apperrors.NewValidationError("validation failed",
			apperrors.ValidationDetail{Field: "current_password", Message: "current password is incorrect"})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	if err := s.repo.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		return err
	}

	// Every other session dies with the old password.
	if err := s.repo.DeleteOtherTokens(ctx, user.ID, id.TokenID); err != nil {
		return err
	}

	s.logger.Info("password changed", zap.Int64("userId", user.ID))
	return nil
}

func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.repo.FindUserByEmail(ctx, email)
	if err != nil {
		if _, ok := apperrors.IsNotFoundError(err); ok {
			return apperrors.NewValidationError("validation failed",
				apperrors.ValidationDetail{Field: "email", Message: "no account with that email"})
		}
		return err
	}

	if !user.Active {
		return apperrors.NewForbiddenError("account has been deactivated")
	}

	plain, hash, err := NewToken()
	if err != nil {
		return err
	}

	if err := s.repo.UpsertPasswordReset(ctx, user.Email, hash); err != nil {
		return err
	}

	link := fmt.Sprintf("%s?token=%s&email=%s", s.resetURL, plain, user.Email)
	if err := s.mailer.SendPasswordReset(user.Email, link); err != nil {
		return fmt.Errorf("sending reset mail: %w", err)
	}

	s.logger.Info("password reset link sent", zap.Int64("userId", user.ID))
	return nil
}

func (s *Service) ResetPassword(ctx context.Context, email, token, password, confirm string) error {
	if details := validatePassword(password, confirm, "password"); len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}

	storedHash, createdAt, err := s.repo.FindPasswordReset(ctx, email)
	if err != nil {
		if _, ok := apperrors.IsNotFoundError(err); ok {
			return apperrors.NewValidationError("validation failed",
				apperrors.ValidationDetail{Field: "token", Message: "invalid reset token"})
		}
		return err
	}

	if storedHash != HashToken(token) || time.Since(createdAt) > resetTokenTTL {
		return apperrors.NewValidationError("validation failed",
			apperrors.ValidationDetail{Field: "token", Message: "invalid or expired reset token"})
	}

	user, err := s.repo.FindUserByEmail(ctx, email)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	if err := s.repo.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		return err
	}

	if err := s.repo.DeletePasswordReset(ctx, email); err != nil {
		return err
	}

	if err := s.repo.DeleteTokensForUser(ctx, user.ID); err != nil {
		return err
	}

	s.logger.Info("password reset", zap.Int64("userId", user.ID))
	return nil
}

func validatePassword(password, confirm, field string) []apperrors.ValidationDetail {
	var details []apperrors.ValidationDetail
	if len(password) < 8 {
		details = append(details, apperrors.ValidationDetail{
			Field:   field,
			Message: "password must be at least 8 characters",
		})
	}
	if password != confirm {
		details = append(details, apperrors.ValidationDetail{
			Field:   field + "_confirmation",
			Message: "password confirmation does not match",
		})
	}
	return details
}
