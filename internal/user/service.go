package user

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"biosen/internal/auth"
	"biosen/internal/domain"
	apperrors "biosen/internal/errors"
	"biosen/internal/upload"
)

type Service struct {
	repo    *MySQLRepository
	storage *upload.Storage
	logger  *zap.Logger
}

func NewService(repo *MySQLRepository, storage *upload.Storage, logger *zap.Logger) *Service {
	return &Service{
		repo:    repo,
		storage: storage,
		logger:  logger,
	}
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]domain.User, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *Service) Show(ctx context.Context, userID int64) (*domain.User, error) {
	return s.repo.FindByID(ctx, userID)
}

func (s *Service) ShopName(ctx context.Context, u domain.User) *string {
	if u.ShopID == nil {
		return nil
	}
	name, err := s.repo.ShopName(ctx, *u.ShopID)
	if err != nil {
		s.logger.Warn("failed to resolve shop name", zap.Int64("shopId", *u.ShopID), zap.Error(err))
		return nil
	}
	return name
}

func (s *Service) Create(ctx context.Context, req CreateRequest, photo *upload.PendingFile) (*domain.User, error) {
	details := []apperrors.ValidationDetail{}
	if req.Name == "" {
		details = append(details, apperrors.ValidationDetail{Field: "name", Message: "name is required"})
	}
	if req.Email == "" {
		details = append(details, apperrors.ValidationDetail{Field: "email", Message: "email is required"})
	}
	if len(req.Password) < 8 {
		details = append(details, apperrors.ValidationDetail{Field: "password", Message: "password must be at least 8 characters"})
	}
	if !validRole(req.Role) {
		details = append(details, apperrors.ValidationDetail{Field: "role", Message: "role must be admin, manager or clerk"})
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("validation failed", details...)
	}

	shopID, err := s.resolveShop(ctx, req.Role, req.ShopID)
	if err != nil {
		return nil, err
	}

	taken, err := s.repo.EmailTaken(ctx, req.Email, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
			Field:   "email",
			Message: "email is already taken",
		})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	u := domain.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         req.Role,
		ShopID:       shopID,
		Active:       true,
	}

	if photo != nil {
		path, err := s.storage.Save(photo.File, photo.Name, "users")
		if err != nil {
			return nil, err
		}
		u.Photo = &path
	}

	userID, err := s.repo.Insert(ctx, u)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user created",
		zap.Int64("userId", userID),
		zap.String("role", u.Role))

	return s.repo.FindByID(ctx, userID)
}

func (s *Service) Update(ctx context.Context, userID int64, req UpdateRequest, photo *upload.PendingFile) (*domain.User, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
				Field:   "name",
				Message: "name must not be empty",
			})
		}
		u.Name = *req.Name
	}
	if req.Email != nil {
		taken, err := s.repo.EmailTaken(ctx, *req.Email, userID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
				Field:   "email",
				Message: "email is already taken",
			})
		}
		u.Email = *req.Email
	}
	if req.Password != nil {
		if len(*req.Password) < 8 {
			return nil, apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
				Field:   "password",
				Message: "password must be at least 8 characters",
			})
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hashing password: %w", err)
		}
		u.PasswordHash = string(hash)
	}

	role := u.Role
	if req.Role != nil {
		if !validRole(*req.Role) {
			return nil, apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
				Field:   "role",
				Message: "role must be admin, manager or clerk",
			})
		}
		role = *req.Role
	}

	requested := req.ShopID
	if requested == nil {
		requested = u.ShopID
	}
	shopID, err := s.resolveShop(ctx, role, requested)
	if err != nil {
		return nil, err
	}
	u.Role = role
	u.ShopID = shopID

	if req.Active != nil {
		u.Active = *req.Active
	}

	if photo != nil {
		path, err := s.storage.Replace(photo.File, photo.Name, "users", u.Photo)
		if err != nil {
			return nil, err
		}
		u.Photo = &path
	}

	if err := s.repo.Update(ctx, *u); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, userID)
}

func (s *Service) ChangeRole(ctx context.Context, userID int64, req ChangeRoleRequest) (*domain.User, error) {
	if !validRole(req.Role) {
		return nil, apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
			Field:   "role",
			Message: "role must be admin, manager or clerk",
		})
	}

	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	requested := req.ShopID
	if requested == nil {
		requested = u.ShopID
	}
	shopID, err := s.resolveShop(ctx, req.Role, requested)
	if err != nil {
		return nil, err
	}

	u.Role = req.Role
	u.ShopID = shopID

	if err := s.repo.Update(ctx, *u); err != nil {
		return nil, err
	}

	s.logger.Info("user role changed",
		zap.Int64("userId", userID),
		zap.String("role", req.Role))

	return s.repo.FindByID(ctx, userID)
}

func (s *Service) ToggleActive(ctx context.Context, id auth.Identity, userID int64) (*domain.User, error) {
	if id.UserID == userID {
		return nil, apperrors.NewForbiddenError("you cannot deactivate your own account")
	}

	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	u.Active = !u.Active
	if err := s.repo.Update(ctx, *u); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, userID)
}

func (s *Service) Delete(ctx context.Context, id auth.Identity, userID int64) error {
	if id.UserID == userID {
		return apperrors.NewForbiddenError("you cannot delete your own account")
	}

	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, userID); err != nil {
		return err
	}

	if u.Photo != nil {
		s.storage.Delete(*u.Photo)
	}

	s.logger.Info("user deleted", zap.Int64("userId", userID))
	return nil
}

// resolveShop enforces the role/shop pairing: a manager must be attached
// to an existing shop, admins and clerks never carry one.
func (s *Service) resolveShop(ctx context.Context, role string, shopID *int64) (*int64, error) {
	if role != domain.RoleManager {
		return nil, nil
	}
	if shopID == nil {
		return nil, apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
			Field:   "shop_id",
			Message: "a manager must be assigned to a shop",
		})
	}

	exists, err := s.repo.ShopExists(ctx, *shopID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
			Field:   "shop_id",
			Message: "shop does not exist",
		})
	}
	return shopID, nil
}

func validRole(role string) bool {
	return role == domain.RoleAdmin || role == domain.RoleManager || role == domain.RoleClerk
}
