package category

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
	return &Service{repo: repo, logger: logger}
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]domain.Category, int, error) {
	return s.repo.List(ctx, f)
}

func (s *Service) Create(ctx context.Context, id auth.Identity, req CreateRequest) (*domain.Category, error) {
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

	categoryID, err := s.repo.Insert(ctx, domain.Category{
		ShopID:      shopID,
		Name:        req.Name,
		Description: req.Description,
		Active:      true,
	})
	if err != nil {
		return nil, err
	}

	return s.repo.FindByID(ctx, categoryID)
}

func (s *Service) Show(ctx context.Context, id auth.Identity, categoryID int64) (*domain.Category, error) {
	c, err := s.repo.FindByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if err := auth.EnsureShopAccess(id, c.ShopID); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) Update(ctx context.Context, id auth.Identity, categoryID int64, req UpdateRequest) (*domain.Category, error) {
	c, err := s.Show(ctx, id, categoryID)
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
		c.Name = *req.Name
	}
	if req.Description != nil {
		c.Description = req.Description
	}
	if req.Active != nil {
		c.Active = *req.Active
	}

	if err := s.repo.Update(ctx, *c); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, categoryID)
}

func (s *Service) Delete(ctx context.Context, id auth.Identity, categoryID int64) error {
	if _, err := s.Show(ctx, id, categoryID); err != nil {
		return err
	}

	count, err := s.repo.CountProducts(ctx, categoryID)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperrors.NewConflictError("category still has products and cannot be deleted")
	}

	if err := s.repo.Delete(ctx, categoryID); err != nil {
		return err
	}

	s.logger.Info("category deleted", zap.Int64("categoryId", categoryID))
	return nil
}
