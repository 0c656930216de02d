package shop

import (
	"context"

	"go.uber.org/zap"

	"biosen/internal/commons"
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

func (s *Service) List(ctx context.Context, search string, page commons.Page) ([]domain.Shop, int, error) {
	return s.repo.List(ctx, search, page)
}

func (s *Service) Show(ctx context.Context, id int64) (*domain.Shop, Counts, error) {
	shop, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, Counts{}, err
	}

	counts, err := s.repo.Counts(ctx, id)
	if err != nil {
		return nil, Counts{}, err
	}
	return shop, counts, nil
}

func (s *Service) Create(ctx context.Context, req CreateShopRequest, logo *upload.PendingFile) (*domain.Shop, error) {
	if req.Name == "" {
		return nil, apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
			Field:   "name",
			Message: "name is required",
		})
	}

	shop := domain.Shop{
		Name:    req.Name,
		Address: req.Address,
		Phone:   req.Phone,
		Active:  true,
	}

	if logo != nil {
		path, err := s.storage.Save(logo.File, logo.Name, "logos")
		if err != nil {
			return nil, err
		}
		shop.Logo = &path
	}

	id, err := s.repo.Insert(ctx, shop)
	if err != nil {
		return nil, err
	}

	s.logger.Info("shop created", zap.Int64("shopId", id), zap.String("name", shop.Name))
	return s.repo.FindByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateShopRequest, logo *upload.PendingFile) (*domain.Shop, error) {
	shop, err := s.repo.FindByID(ctx, id)
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
		shop.Name = *req.Name
	}
	if req.Address != nil {
		shop.Address = req.Address
	}
	if req.Phone != nil {
		shop.Phone = req.Phone
	}

	if logo != nil {
		path, err := s.storage.Replace(logo.File, logo.Name, "logos", shop.Logo)
		if err != nil {
			return nil, err
		}
		shop.Logo = &path
	}

	if err := s.repo.Update(ctx, *shop); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	shop, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	counts, err := s.repo.Counts(ctx, id)
	if err != nil {
		return err
	}
	if counts.Users > 0 || counts.Orders > 0 {
		return apperrors.NewConflictError("shop still has users or orders and cannot be deleted")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if shop.Logo != nil {
		s.storage.Delete(*shop.Logo)
	}

	s.logger.Info("shop deleted", zap.Int64("shopId", id))
	return nil
}

func (s *Service) ToggleStatus(ctx context.Context, id int64) (bool, error) {
	return s.repo.ToggleActive(ctx, id)
}
