package employee

import (
	"context"

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

func (s *Service) List(ctx context.Context, filter ListFilter) ([]domain.Employee, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *Service) Show(ctx context.Context, id auth.Identity, employeeID int64) (*domain.Employee, error) {
	e, err := s.repo.FindByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if err := auth.EnsureShopAccess(id, e.ShopID); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *Service) Create(ctx context.Context, id auth.Identity, req CreateRequest, photo *upload.PendingFile) (*domain.Employee, error) {
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

	e := domain.Employee{
		ShopID:    shopID,
		Name:      req.Name,
		Phone:     req.Phone,
		RoleTitle: req.RoleTitle,
		Active:    true,
	}

	if photo != nil {
		path, err := s.storage.Save(photo.File, photo.Name, "employees")
		if err != nil {
			return nil, err
		}
		e.Photo = &path
	}

	employeeID, err := s.repo.Insert(ctx, e)
	if err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, employeeID)
}

func (s *Service) Update(ctx context.Context, id auth.Identity, employeeID int64, req UpdateRequest, photo *upload.PendingFile) (*domain.Employee, error) {
	e, err := s.Show(ctx, id, employeeID)
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
		e.Name = *req.Name
	}
	if req.Phone != nil {
		e.Phone = req.Phone
	}
	if req.RoleTitle != nil {
		e.RoleTitle = req.RoleTitle
	}
	if req.Active != nil {
		e.Active = *req.Active
	}

	if photo != nil {
		path, err := s.storage.Replace(photo.File, photo.Name, "employees", e.Photo)
		if err != nil {
			return nil, err
		}
		e.Photo = &path
	}

	if err := s.repo.Update(ctx, *e); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, employeeID)
}

func (s *Service) Delete(ctx context.Context, id auth.Identity, employeeID int64) error {
	e, err := s.Show(ctx, id, employeeID)
	if err != nil {
		return err
	}

	count, err := s.repo.CountOrders(ctx, employeeID)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperrors.NewConflictError("employee has orders and cannot be deleted")
	}

	if err := s.repo.Delete(ctx, employeeID); err != nil {
		return err
	}

	if e.Photo != nil {
		s.storage.Delete(*e.Photo)
	}
	return nil
}
