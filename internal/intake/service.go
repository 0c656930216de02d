package intake

import (
	"context"

	"go.uber.org/zap"

	"biosen/internal/auth"
	"biosen/internal/domain"
	apperrors "biosen/internal/errors"
)

const (
	minPhoneLen    = 7
	minProductsLen = 5
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

func (s *Service) List(ctx context.Context, filter ListFilter) ([]domain.IntakeOrder, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *Service) EntererNames(ctx context.Context) (map[int64]string, error) {
	return s.repo.EntererNames(ctx)
}

func (s *Service) Show(ctx context.Context, orderID int64) (*domain.IntakeOrder, error) {
	return s.repo.FindByID(ctx, orderID)
}

func (s *Service) Create(ctx context.Context, id auth.Identity, req CreateRequest) (*domain.IntakeOrder, error) {
	if err := validate(req.Phone, req.ClientName, req.Salesperson, req.Products); err != nil {
		return nil, err
	}

	o := domain.IntakeOrder{
		Phone:       req.Phone,
		ClientName:  req.ClientName,
		Address:     req.Address,
		Salesperson: req.Salesperson,
		Products:    req.Products,
		EnteredBy:   id.UserID,
	}

	orderID, err := s.repo.Insert(ctx, o)
	if err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, orderID)
}

func (s *Service) Update(ctx context.Context, orderID int64, req UpdateRequest) (*domain.IntakeOrder, error) {
	o, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if req.Phone != nil {
		o.Phone = *req.Phone
	}
	if req.ClientName != nil {
		o.ClientName = *req.ClientName
	}
	if req.Address != nil {
		o.Address = req.Address
	}
	if req.Salesperson != nil {
		o.Salesperson = *req.Salesperson
	}
	if req.Products != nil {
		o.Products = *req.Products
	}

	if err := validate(o.Phone, o.ClientName, o.Salesperson, o.Products); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, *o); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, orderID)
}

func (s *Service) Delete(ctx context.Context, orderID int64) error {
	if _, err := s.repo.FindByID(ctx, orderID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, orderID)
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	return s.repo.Stats(ctx)
}

func validate(phone, clientName, salesperson, products string) error {
	details := []apperrors.ValidationDetail{}
	if len(phone) < minPhoneLen {
		details = append(details, apperrors.ValidationDetail{Field: "phone", Message: "phone must be at least 7 characters"})
	}
	if clientName == "" {
		details = append(details, apperrors.ValidationDetail{Field: "client_name", Message: "client_name is required"})
	}
	if salesperson == "" {
		details = append(details, apperrors.ValidationDetail{Field: "salesperson", Message: "salesperson is required"})
	}
	if len(products) < minProductsLen {
		details = append(details, apperrors.ValidationDetail{Field: "products", Message: "products must be at least 5 characters"})
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}
	return nil
}
