package expense

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
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

func (s *Service) List(ctx context.Context, filter ListFilter) ([]domain.Expense, int, decimal.Decimal, error) {
	expenses, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, decimal.Zero, err
	}
	sum, err := s.repo.Total(ctx, filter)
	if err != nil {
		return nil, 0, decimal.Zero, err
	}
	return expenses, total, sum, nil
}

func (s *Service) Show(ctx context.Context, id auth.Identity, expenseID int64) (*domain.Expense, error) {
	e, err := s.repo.FindByID(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if err := auth.EnsureShopAccess(id, e.ShopID); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *Service) Create(ctx context.Context, id auth.Identity, req CreateRequest) (*domain.Expense, error) {
	details := []apperrors.ValidationDetail{}
	if req.Description == "" {
		details = append(details, apperrors.ValidationDetail{Field: "description", Message: "description is required"})
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || amount.IsNegative() {
		details = append(details, apperrors.ValidationDetail{Field: "amount", Message: "amount must be a non-negative number"})
	}

	spentOn := time.Now()
	if req.SpentOn != "" {
		spentOn, err = time.Parse("2006-01-02", req.SpentOn)
		if err != nil {
			details = append(details, apperrors.ValidationDetail{Field: "spent_on", Message: "spent_on must be a date in YYYY-MM-DD format"})
		}
	}

	if len(details) > 0 {
		return nil, apperrors.NewValidationError("validation failed", details...)
	}

	shopID, err := auth.ResolveShopID(id, req.ShopID)
	if err != nil {
		return nil, err
	}

	e := domain.Expense{
		ShopID:      shopID,
		Description: req.Description,
		Amount:      amount,
		Category:    req.Category,
		SpentOn:     spentOn,
	}

	expenseID, err := s.repo.Insert(ctx, e)
	if err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, expenseID)
}

func (s *Service) Update(ctx context.Context, id auth.Identity, expenseID int64, req UpdateRequest) (*domain.Expense, error) {
	e, err := s.Show(ctx, id, expenseID)
	if err != nil {
		return nil, err
	}

	if req.Description != nil {
		if *req.Description == "" {
			return nil, apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
				Field:   "description",
				Message: "description must not be empty",
			})
		}
		e.Description = *req.Description
	}
	if req.Amount != nil {
		amount, err := decimal.NewFromString(*req.Amount)
		if err != nil || amount.IsNegative() {
			return nil, apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
				Field:   "amount",
				Message: "amount must be a non-negative number",
			})
		}
		e.Amount = amount
	}
	if req.Category != nil {
		e.Category = req.Category
	}
	if req.SpentOn != nil {
		spentOn, err := time.Parse("2006-01-02", *req.SpentOn)
		if err != nil {
			return nil, apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
				Field:   "spent_on",
				Message: "spent_on must be a date in YYYY-MM-DD format",
			})
		}
		e.SpentOn = spentOn
	}

	if err := s.repo.Update(ctx, *e); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, expenseID)
}

func (s *Service) Delete(ctx context.Context, id auth.Identity, expenseID int64) error {
	if _, err := s.Show(ctx, id, expenseID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, expenseID)
}
