package product

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

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

func (s *Service) List(ctx context.Context, f ListFilter) ([]domain.Product, int, error) {
	return s.repo.List(ctx, f)
}

func (s *Service) LowStock(ctx context.Context, shopID *int64) ([]domain.Product, error) {
	return s.repo.LowStock(ctx, shopID)
}

func (s *Service) Show(ctx context.Context, id auth.Identity, productID int64) (*domain.Product, error) {
	p, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if err := auth.EnsureShopAccess(id, p.ShopID); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Create(ctx context.Context, id auth.Identity, req CreateRequest, image *upload.PendingFile) (*domain.Product, error) {
	var details []apperrors.ValidationDetail
	if req.Name == "" {
		details = append(details, apperrors.ValidationDetail{Field: "name", Message: "name is required"})
	}
	if req.CategoryID <= 0 {
		details = append(details, apperrors.ValidationDetail{Field: "category_id", Message: "category_id is required"})
	}
	if req.Stock < 0 {
		details = append(details, apperrors.ValidationDetail{Field: "stock", Message: "stock must not be negative"})
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil || price.IsNegative() {
		details = append(details, apperrors.ValidationDetail{Field: "price", Message: "price must be a non-negative number"})
	}

	if len(details) > 0 {
		return nil, apperrors.NewValidationError("validation failed", details...)
	}

	shopID, err := auth.ResolveShopID(id, req.ShopID)
	if err != nil {
		return nil, err
	}

	categoryShop, err := s.repo.CategoryShop(ctx, req.CategoryID)
	if err != nil {
		return nil, err
	}
	if categoryShop != shopID {
		return nil, apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
			Field:   "category_id",
			Message: "category belongs to another shop",
		})
	}

	p := domain.Product{
		ShopID:            shopID,
		CategoryID:        req.CategoryID,
		Name:              req.Name,
		Description:       req.Description,
		Price:             price,
		Stock:             req.Stock,
		LowStockThreshold: req.LowStockThreshold,
		Active:            true,
	}

	if image != nil {
		path, err := s.storage.Save(image.File, image.Name, "products")
		if err != nil {
			return nil, err
		}
		p.Image = &path
	}

	productID, err := s.repo.Insert(ctx, p)
	if err != nil {
		return nil, err
	}

	s.logger.Info("product created", zap.Int64("productId", productID), zap.Int64("shopId", shopID))
	return s.repo.FindByID(ctx, productID)
}

func (s *Service) Update(ctx context.Context, id auth.Identity, productID int64, req UpdateRequest, image *upload.PendingFile) (*domain.Product, error) {
	p, err := s.Show(ctx, id, productID)
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
		p.Name = *req.Name
	}
	if req.CategoryID != nil {
		categoryShop, err := s.repo.CategoryShop(ctx, *req.CategoryID)
		if err != nil {
			return nil, err
		}
		if categoryShop != p.ShopID {
			return nil, apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
				Field:   "category_id",
				Message: "category belongs to another shop",
			})
		}
		p.CategoryID = *req.CategoryID
	}
	if req.Description != nil {
		p.Description = req.Description
	}
	if req.Price != nil {
		price, err := decimal.NewFromString(*req.Price)
		if err != nil || price.IsNegative() {
			return nil, apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
				Field:   "price",
				Message: "price must be a non-negative number",
			})
		}
		p.Price = price
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			return nil, apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
				Field:   "stock",
				Message: "stock must not be negative",
			})
		}
		p.Stock = *req.Stock
	}
	if req.LowStockThreshold != nil {
		p.LowStockThreshold = req.LowStockThreshold
	}
	if req.Active != nil {
		p.Active = *req.Active
	}

	if image != nil {
		path, err := s.storage.Replace(image.File, image.Name, "products", p.Image)
		if err != nil {
			return nil, err
		}
		p.Image = &path
	}

	if err := s.repo.Update(ctx, *p); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, productID)
}

func (s *Service) Delete(ctx context.Context, id auth.Identity, productID int64) error {
	p, err := s.Show(ctx, id, productID)
	if err != nil {
		return err
	}

	count, err := s.repo.CountOrderLines(ctx, productID)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperrors.NewConflictError("product appears on orders and cannot be deleted")
	}

	if err := s.repo.Delete(ctx, productID); err != nil {
		return err
	}

	if p.Image != nil {
		s.storage.Delete(*p.Image)
	}

	s.logger.Info("product deleted", zap.Int64("productId", productID))
	return nil
}
