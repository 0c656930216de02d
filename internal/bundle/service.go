package bundle

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

func (s *Service) List(ctx context.Context, filter ListFilter) ([]domain.Bundle, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *Service) Show(ctx context.Context, id auth.Identity, bundleID int64) (*domain.Bundle, error) {
	b, err := s.repo.FindByID(ctx, bundleID)
	if err != nil {
		return nil, err
	}
	if err := auth.EnsureShopAccess(id, b.ShopID); err != nil {
		return nil, err
	}
	return b, nil
}

// ProductNames resolves product names for DTO rendering.
func (s *Service) ProductNames(ctx context.Context, bundles ...domain.Bundle) (map[int64]string, error) {
	seen := map[int64]bool{}
	var ids []int64
	for _, b := range bundles {
		for _, p := range b.Products {
			if !seen[p.ProductID] {
				seen[p.ProductID] = true
				ids = append(ids, p.ProductID)
			}
		}
	}
	return s.repo.ProductNames(ctx, ids)
}

func (s *Service) Create(ctx context.Context, id auth.Identity, req CreateRequest) (*domain.Bundle, error) {
	if err := validateEntries(req.Name, req.Products); err != nil {
		return nil, err
	}

	shopID, err := auth.ResolveShopID(id, req.ShopID)
	if err != nil {
		return nil, err
	}

	products, err := s.checkProducts(ctx, shopID, req.Products)
	if err != nil {
		return nil, err
	}

	b := domain.Bundle{
		ShopID:      shopID,
		Name:        req.Name,
		Description: req.Description,
		Active:      true,
		Products:    products,
	}

	bundleID, err := s.repo.Insert(ctx, b)
	if err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, bundleID)
}

func (s *Service) Update(ctx context.Context, id auth.Identity, bundleID int64, req UpdateRequest) (*domain.Bundle, error) {
	b, err := s.Show(ctx, id, bundleID)
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
		b.Name = *req.Name
	}
	if req.Description != nil {
		b.Description = req.Description
	}
	if req.Active != nil {
		b.Active = *req.Active
	}

	replaceProducts := req.Products != nil
	if replaceProducts {
		if err := validateEntries(b.Name, req.Products); err != nil {
			return nil, err
		}
		products, err := s.checkProducts(ctx, b.ShopID, req.Products)
		if err != nil {
			return nil, err
		}
		b.Products = products
	}

	if err := s.repo.Update(ctx, *b, replaceProducts); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, bundleID)
}

func (s *Service) Delete(ctx context.Context, id auth.Identity, bundleID int64) error {
	if _, err := s.Show(ctx, id, bundleID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, bundleID)
}

func validateEntries(name string, entries []ProductEntry) error {
	details := []apperrors.ValidationDetail{}
	if name == "" {
		details = append(details, apperrors.ValidationDetail{Field: "name", Message: "name is required"})
	}
	if len(entries) == 0 {
		details = append(details, apperrors.ValidationDetail{Field: "products", Message: "at least one product is required"})
	}
	seen := map[int64]bool{}
	for _, e := range entries {
		if e.ProductID <= 0 || e.Quantity <= 0 {
			details = append(details, apperrors.ValidationDetail{Field: "products", Message: "product_id and quantity must be positive"})
			break
		}
		if seen[e.ProductID] {
			details = append(details, apperrors.ValidationDetail{Field: "products", Message: "duplicate product in bundle"})
			break
		}
		seen[e.ProductID] = true
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}
	return nil
}

func (s *Service) checkProducts(ctx context.Context, shopID int64, entries []ProductEntry) ([]domain.BundleProduct, error) {
	ids := make([]int64, 0, len(entries))
	products := make([]domain.BundleProduct, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ProductID)
		products = append(products, domain.BundleProduct{ProductID: e.ProductID, Quantity: e.Quantity})
	}

	count, err := s.repo.CountShopProducts(ctx, shopID, ids)
	if err != nil {
		return nil, err
	}
	if count != len(ids) {
		return nil, apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
			Field:   "products",
			Message: "all products must belong to the bundle's shop",
		})
	}
	return products, nil
}
