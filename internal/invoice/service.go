package invoice

import (
	"context"

	"go.uber.org/zap"

	"biosen/internal/auth"
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

func (s *Service) List(ctx context.Context, filter ListFilter) ([]Row, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *Service) Show(ctx context.Context, id auth.Identity, invoiceID int64) (*Row, error) {
	row, err := s.repo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if err := auth.EnsureShopAccess(id, row.ShopID); err != nil {
		return nil, err
	}
	return row, nil
}
