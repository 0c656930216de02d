package driver

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

func (s *Service) List(ctx context.Context, filter ListFilter) ([]domain.Driver, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *Service) Available(ctx context.Context, shopID *int64) ([]domain.Driver, error) {
	return s.repo.Available(ctx, shopID)
}

func (s *Service) Show(ctx context.Context, id auth.Identity, driverID int64) (*domain.Driver, error) {
	d, err := s.repo.FindByID(ctx, driverID)
	if err != nil {
		return nil, err
	}
	if err := auth.EnsureShopAccess(id, d.ShopID); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Service) Create(ctx context.Context, id auth.Identity, req CreateRequest) (*domain.Driver, error) {
	if req.Name == "" {
		return nil, apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
			Field:   "name",
			Message: "name is required",
		})
	}

	shopID, err := auth.ResolveShopID(id, req.ShopID)
	if err != nil {
		return nil, err
	}

	d := domain.Driver{
		ShopID:    shopID,
		Name:      req.Name,
		Phone:     req.Phone,
		Available: true,
		Active:    true,
	}

	driverID, err := s.repo.Insert(ctx, d)
	if err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, driverID)
}

func (s *Service) Update(ctx context.Context, id auth.Identity, driverID int64, req UpdateRequest) (*domain.Driver, error) {
	d, err := s.Show(ctx, id, driverID)
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
		d.Name = *req.Name
	}
	if req.Phone != nil {
		d.Phone = req.Phone
	}
	if req.Available != nil {
		d.Available = *req.Available
	}
	if req.Active != nil {
		d.Active = *req.Active
	}

	if err := s.repo.Update(ctx, *d); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, driverID)
}

func (s *Service) ToggleAvailable(ctx context.Context, id auth.Identity, driverID int64) (*domain.Driver, error) {
	if _, err := s.Show(ctx, id, driverID); err != nil {
		return nil, err
	}
	if err := s.repo.ToggleAvailable(ctx, driverID); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, driverID)
}

func (s *Service) Delete(ctx context.Context, id auth.Identity, driverID int64) error {
	if _, err := s.Show(ctx, id, driverID); err != nil {
		return err
	}

	count, err := s.repo.CountOrders(ctx, driverID)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperrors.NewConflictError("driver has orders and cannot be deleted")
	}

	return s.repo.Delete(ctx, driverID)
}
