package dashboard

import (
	"context"

	"go.uber.org/zap"

	"biosen/internal/domain"
	productrepo "biosen/internal/product"
)

type ProductLister interface {
	LowStock(ctx context.Context, shopID *int64) ([]domain.Product, error)
}

type Service struct {
	repo     *MySQLRepository
	products ProductLister
	logger   *zap.Logger
}

func NewService(repo *MySQLRepository, products ProductLister, logger *zap.Logger) *Service {
	return &Service{
		repo:     repo,
		products: products,
		logger:   logger,
	}
}

func (s *Service) Stats(ctx context.Context, shopID *int64) (*Stats, error) {
	return s.repo.Stats(ctx, shopID)
}

func (s *Service) TopProducts(ctx context.Context, shopID *int64, period Period, limit int) ([]TopProduct, error) {
	return s.repo.TopProducts(ctx, shopID, period, limit)
}

func (s *Service) TopEmployees(ctx context.Context, shopID *int64, period Period, limit int) ([]TopEmployee, error) {
	return s.repo.TopEmployees(ctx, shopID, period, limit)
}

func (s *Service) TopDrivers(ctx context.Context, shopID *int64, period Period, limit int) ([]TopDriver, error) {
	return s.repo.TopDrivers(ctx, shopID, period, limit)
}

func (s *Service) OrdersSeries(ctx context.Context, shopID *int64, period Period) ([]SeriesPoint, error) {
	return s.repo.OrdersSeries(ctx, shopID, period)
}

func (s *Service) SalesEvolution(ctx context.Context, shopID *int64) ([]SeriesPoint, error) {
	return s.repo.SalesEvolution(ctx, shopID)
}

func (s *Service) LowStock(ctx context.Context, shopID *int64) ([]productrepo.ProductDTO, error) {
	products, err := s.products.LowStock(ctx, shopID)
	if err != nil {
		return nil, err
	}
	dtos := make([]productrepo.ProductDTO, 0, len(products))
	for _, p := range products {
		dtos = append(dtos, productrepo.NewProductDTO(p))
	}
	return dtos, nil
}

func (s *Service) EmployeeStats(ctx context.Context, shopID *int64) ([]EmployeeStats, error) {
	return s.repo.EmployeeStats(ctx, shopID)
}
