package client

import (
	"context"

	"go.uber.org/zap"

	"biosen/internal/auth"
	"biosen/internal/domain"
	apperrors "biosen/internal/errors"
)

type Service struct {
	repo   *MySQLRepository
	logger *zap.Logger
}

func NewService(repo *MySQLRepository, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]domain.Client, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *Service) Show(ctx context.Context, id auth.Identity, clientID int64) (*domain.Client, error) {
	c, err := s.repo.FindByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if err := auth.EnsureShopAccess(id, c.ShopID); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) Create(ctx context.Context, id auth.Identity, req CreateRequest) (*domain.Client, error) {
	details := []apperrors.ValidationDetail{}
	if req.FullName == "" {
		details = append(details, apperrors.ValidationDetail{Field: "full_name", Message: "full_name is required"})
	}
	if req.Phone == "" {
		details = append(details, apperrors.ValidationDetail{Field: "phone", Message: "phone is required"})
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("validation failed", details...)
	}

	shopID, err := auth.ResolveShopID(id, req.ShopID)
	if err != nil {
		return nil, err
	}

	c := domain.Client{
		ShopID:   shopID,
		FullName: req.FullName,
		Phone:    req.Phone,
		Address:  req.Address,
	}

	clientID, err := s.repo.Insert(ctx, c)
	if err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, clientID)
}

func (s *Service) Update(ctx context.Context, id auth.Identity, clientID int64, req UpdateRequest) (*domain.Client, error) {
	c, err := s.Show(ctx, id, clientID)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		if *req.FullName == "" {
			return nil, apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
				Field:   "full_name",
				Message: "full_name must not be empty",
			})
		}
		c.FullName = *req.FullName
	}
	if req.Phone != nil {
		if *req.Phone == "" {
			return nil, apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
				Field:   "phone",
				Message: "phone must not be empty",
			})
		}
		c.Phone = *req.Phone
	}
	if req.Address != nil {
		c.Address = req.Address
	}

	if err := s.repo.Update(ctx, *c); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, clientID)
}

func (s *Service) Delete(ctx context.Context, id auth.Identity, clientID int64) error {
	if _, err := s.Show(ctx, id, clientID); err != nil {
		return err
	}

	count, err := s.repo.CountOrders(ctx, clientID)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperrors.NewConflictError("client has orders and cannot be deleted")
	}

	return s.repo.Delete(ctx, clientID)
}
