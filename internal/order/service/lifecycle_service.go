package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"biosen/internal/auth"
	"biosen/internal/domain"
	apperrors "biosen/internal/errors"
	"biosen/internal/order/dto"
	"biosen/internal/order/repository"
)

const txTimeout = 5 * time.Second

type TransactionManager interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

type OrderRepository interface {
	List(ctx context.Context, f repository.ListFilter) ([]domain.Order, int, error)
	DaySummary(ctx context.Context, shopID *int64, date time.Time) (*dto.DaySummary, error)
	FindByID(ctx context.Context, id int64) (*domain.Order, error)
	FindByIDForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*domain.Order, error)
	Insert(ctx context.Context, tx *sql.Tx, o domain.Order) (int64, error)
	InsertLines(ctx context.Context, tx *sql.Tx, orderID int64, lines []domain.OrderLine) error
	UpdateHeader(ctx context.Context, tx *sql.Tx, o domain.Order) error
	ReplaceLines(ctx context.Context, tx *sql.Tx, orderID int64, lines []domain.OrderLine) error
	Delete(ctx context.Context, tx *sql.Tx, orderID int64) error
	MarkValidated(ctx context.Context, tx *sql.Tx, orderID int64, at time.Time) error
	MarkCancelled(ctx context.Context, tx *sql.Tx, orderID int64, at time.Time, reason string, cancelledBy int64) error
	Names(ctx context.Context, orders ...domain.Order) (map[int64]dto.OrderNames, error)
	ShopName(ctx context.Context, id int64) (string, error)
}

type StockRepository interface {
	FindByIDs(ctx context.Context, ids []int64) (map[int64]repository.ProductRow, error)
	FindForUpdate(ctx context.Context, tx *sql.Tx, ids []int64) (map[int64]repository.ProductRow, error)
	AdjustStock(ctx context.Context, tx *sql.Tx, productID int64, delta int) error
}

type SequenceRepository interface {
	NextNumber(ctx context.Context, tx *sql.Tx, scope string, year int) (int, error)
}

type InvoiceRepository interface {
	Insert(ctx context.Context, tx *sql.Tx, i domain.Invoice) (int64, error)
	FindByOrderID(ctx context.Context, orderID int64) (*domain.Invoice, error)
}

type LifecycleService struct {
	db          TransactionManager
	orderRepo   OrderRepository
	stockRepo   StockRepository
	seqRepo     SequenceRepository
	invoiceRepo InvoiceRepository
	logger      *zap.Logger
}

func NewLifecycleService(
	db TransactionManager,
	orderRepo OrderRepository,
	stockRepo StockRepository,
	seqRepo SequenceRepository,
	invoiceRepo InvoiceRepository,
	logger *zap.Logger,
) *LifecycleService {
	return &LifecycleService{
		db:          db,
		orderRepo:   orderRepo,
		stockRepo:   stockRepo,
		seqRepo:     seqRepo,
		invoiceRepo: invoiceRepo,
		logger:      logger,
	}
}

func (s *LifecycleService) List(ctx context.Context, filter repository.ListFilter) ([]domain.Order, int, map[int64]dto.OrderNames, error) {
	orders, total, err := s.orderRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, nil, err
	}
	names, err := s.orderRepo.Names(ctx, orders...)
	if err != nil {
		return nil, 0, nil, err
	}
	return orders, total, names, nil
}

func (s *LifecycleService) DaySummary(ctx context.Context, shopID *int64, date time.Time) (*dto.DaySummary, error) {
	return s.orderRepo.DaySummary(ctx, shopID, date)
}

func (s *LifecycleService) Show(ctx context.Context, id auth.Identity, orderID int64) (*domain.Order, *domain.Invoice, dto.OrderNames, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, nil, dto.OrderNames{}, err
	}
	if err := auth.EnsureShopAccess(id, o.ShopID); err != nil {
		return nil, nil, dto.OrderNames{}, err
	}

	invoice, err := s.invoiceRepo.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, nil, dto.OrderNames{}, err
	}

	names, err := s.orderRepo.Names(ctx, *o)
	if err != nil {
		return nil, nil, dto.OrderNames{}, err
	}

	return o, invoice, names[o.ID], nil
}

// Create writes the order and its lines in one transaction. Unit prices
// are copied from the products at this moment and never change
// afterwards.
func (s *LifecycleService) Create(ctx context.Context, id auth.Identity, req dto.CreateOrderRequest) (*domain.Order, error) {
	if err := validateCreate(req); err != nil {
		return nil, err
	}

	shopID, err := auth.ResolveShopID(id, req.ShopID)
	if err != nil {
		return nil, err
	}

	orderDate := time.Now()
	if req.OrderDate != "" {
		orderDate, err = time.Parse("2006-01-02", req.OrderDate)
		if err != nil {
			return nil, apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
				Field:   "order_date",
				Message: "order_date must be a date in YYYY-MM-DD format",
			})
		}
	}

	lines, err := s.buildLines(ctx, shopID, req.Lines)
	if err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, txTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return nil, err
	}
	// MySQL ignores the rollback once the transaction is committed.
	defer tx.Rollback()

	year := orderDate.Year()
	value, err := s.seqRepo.NextNumber(txCtx, tx, repository.ScopeOrder, year)
	if err != nil {
		s.logger.Error("failed to claim order number", zap.Error(err))
		return nil, err
	}

	o := domain.Order{
		Number:     repository.FormatNumber(repository.ScopeOrder, year, value),
		ShopID:     shopID,
		ClientID:   req.ClientID,
		EmployeeID: req.EmployeeID,
		DriverID:   req.DriverID,
		Type:       req.Type,
		Status:     domain.OrderStatusOpen,
		Total:      domain.ComputeTotal(lines),
		OrderDate:  orderDate,
		Notes:      req.Notes,
	}

	orderID, err := s.orderRepo.Insert(txCtx, tx, o)
	if err != nil {
		s.logger.Error("failed to insert order", zap.Error(err))
		return nil, err
	}

	if err := s.orderRepo.InsertLines(txCtx, tx, orderID, lines); err != nil {
		s.logger.Error("failed to insert order lines", zap.Int64("orderId", orderID), zap.Error(err))
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit transaction", zap.Error(err))
		return nil, err
	}

	s.logger.Info("order created",
		zap.Int64("orderId", orderID),
		zap.String("number", o.Number),
		zap.Int64("shopId", shopID),
		zap.String("total", o.Total.String()))

	return s.orderRepo.FindByID(ctx, orderID)
}

// Update merges header fields and optionally replaces the lines. Only
// open orders may change.
func (s *LifecycleService) Update(ctx context.Context, id auth.Identity, orderID int64, req dto.UpdateOrderRequest) (*domain.Order, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := auth.EnsureShopAccess(id, o.ShopID); err != nil {
		return nil, err
	}
	if !o.Mutable() {
		return nil, apperrors.NewInvalidStateError("only open orders can be updated")
	}

	if req.ClientID != nil {
		o.ClientID = req.ClientID
	}
	if req.EmployeeID != nil {
		o.EmployeeID = *req.EmployeeID
	}
	if req.DriverID != nil {
		o.DriverID = req.DriverID
	}
	if req.Type != nil {
		if *req.Type != domain.OrderTypeInStore && *req.Type != domain.OrderTypeDelivery {
			return nil, apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
				Field:   "type",
				Message: "type must be in_store or delivery",
			})
		}
		o.Type = *req.Type
	}
	if req.OrderDate != nil {
		orderDate, err := time.Parse("2006-01-02", *req.OrderDate)
		if err != nil {
			return nil, apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
				Field:   "order_date",
				Message: "order_date must be a date in YYYY-MM-DD format",
			})
		}
		o.OrderDate = orderDate
	}
	if req.Notes != nil {
		o.Notes = req.Notes
	}

	replaceLines := req.Lines != nil
	if replaceLines {
		if err := validateLines(req.Lines); err != nil {
			return nil, err
		}
		lines, err := s.buildLines(ctx, o.ShopID, req.Lines)
		if err != nil {
			return nil, err
		}
		o.Lines = lines
		o.Total = domain.ComputeTotal(lines)
	}

	txCtx, cancel := context.WithTimeout(ctx, txTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return nil, err
	}
	defer tx.Rollback()

	if err := s.orderRepo.UpdateHeader(txCtx, tx, *o); err != nil {
		s.logger.Error("failed to update order header", zap.Int64("orderId", orderID), zap.Error(err))
		return nil, err
	}
	if replaceLines {
		if err := s.orderRepo.ReplaceLines(txCtx, tx, orderID, o.Lines); err != nil {
			s.logger.Error("failed to replace order lines", zap.Int64("orderId", orderID), zap.Error(err))
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit transaction", zap.Error(err))
		return nil, err
	}

	return s.orderRepo.FindByID(ctx, orderID)
}

// Delete removes an open order and its lines.
func (s *LifecycleService) Delete(ctx context.Context, id auth.Identity, orderID int64) error {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return err
	}
	if err := auth.EnsureShopAccess(id, o.ShopID); err != nil {
		return err
	}
	if !o.Mutable() {
		return apperrors.NewInvalidStateError("only open orders can be deleted")
	}

	txCtx, cancel := context.WithTimeout(ctx, txTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	if err := s.orderRepo.Delete(txCtx, tx, orderID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit transaction", zap.Error(err))
		return err
	}

	s.logger.Info("order deleted", zap.Int64("orderId", orderID))
	return nil
}

// Validate moves an open order to validated: stock is decremented under
// row locks, the order is stamped and the invoice is written, all in one
// transaction.
func (s *LifecycleService) Validate(ctx context.Context, id auth.Identity, orderID int64) (*domain.Order, *domain.Invoice, *dto.PrintPayload, error) {
	txCtx, cancel := context.WithTimeout(ctx, txTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return nil, nil, nil, err
	}
	defer tx.Rollback()

	o, err := s.orderRepo.FindByIDForUpdate(txCtx, tx, orderID)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := auth.EnsureShopAccess(id, o.ShopID); err != nil {
		return nil, nil, nil, err
	}
	if !o.CanValidate() {
		return nil, nil, nil, apperrors.NewInvalidStateError("only open orders can be validated")
	}

	// Lock rows in ascending product id order; the SELECT is ordered so
	// overlapping validations cannot deadlock.
	products, err := s.stockRepo.FindForUpdate(txCtx, tx, lineProductIDs(o.Lines))
	if err != nil {
		return nil, nil, nil, err
	}

	for _, line := range o.Lines {
		if err := s.stockRepo.AdjustStock(txCtx, tx, line.ProductID, -line.Quantity); err != nil {
			return nil, nil, nil, err
		}
		if p, ok := products[line.ProductID]; ok && p.Stock-line.Quantity < 0 {
			s.logger.Warn("stock went negative",
				zap.Int64("orderId", orderID),
				zap.Int64("productId", line.ProductID),
				zap.Int("stock", p.Stock-line.Quantity))
		}
	}

	now := time.Now()
	if err := s.orderRepo.MarkValidated(txCtx, tx, orderID, now); err != nil {
		return nil, nil, nil, err
	}

	year := now.Year()
	value, err := s.seqRepo.NextNumber(txCtx, tx, repository.ScopeInvoice, year)
	if err != nil {
		s.logger.Error("failed to claim invoice number", zap.Error(err))
		return nil, nil, nil, err
	}

	invoice := domain.Invoice{
		OrderID:  orderID,
		Number:   repository.FormatNumber(repository.ScopeInvoice, year, value),
		IssuedAt: now,
		Total:    o.Total,
		Status:   domain.InvoiceStatusActive,
	}
	if invoice.ID, err = s.invoiceRepo.Insert(txCtx, tx, invoice); err != nil {
		s.logger.Error("failed to insert invoice", zap.Int64("orderId", orderID), zap.Error(err))
		return nil, nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit transaction", zap.Error(err))
		return nil, nil, nil, err
	}

	s.logger.Info("order validated",
		zap.Int64("orderId", orderID),
		zap.String("invoiceNumber", invoice.Number),
		zap.String("total", o.Total.String()))

	validated, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, nil, nil, err
	}

	payload, err := s.buildPrintPayload(ctx, validated, invoice)
	if err != nil {
		return nil, nil, nil, err
	}

	return validated, &invoice, payload, nil
}

// Cancel ends an order from open or validated. Stock consumed by a
// validated order is restored; the invoice row is left untouched.
func (s *LifecycleService) Cancel(ctx context.Context, id auth.Identity, orderID int64, reason string) (*domain.Order, error) {
	if reason == "" {
		return nil, apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
			Field:   "reason",
			Message: "reason is required",
		})
	}

	txCtx, cancel := context.WithTimeout(ctx, txTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return nil, err
	}
	defer tx.Rollback()

	o, err := s.orderRepo.FindByIDForUpdate(txCtx, tx, orderID)
	if err != nil {
		return nil, err
	}
	if err := auth.EnsureShopAccess(id, o.ShopID); err != nil {
		return nil, err
	}
	if !o.CanCancel() {
		return nil, apperrors.NewInvalidStateError("order is already cancelled")
	}

	wasValidated := o.Status == domain.OrderStatusValidated
	if wasValidated {
		if _, err := s.stockRepo.FindForUpdate(txCtx, tx, lineProductIDs(o.Lines)); err != nil {
			return nil, err
		}
		for _, line := range o.Lines {
			if err := s.stockRepo.AdjustStock(txCtx, tx, line.ProductID, line.Quantity); err != nil {
				return nil, err
			}
		}
	}

	if err := s.orderRepo.MarkCancelled(txCtx, tx, orderID, time.Now(), reason, id.UserID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit transaction", zap.Error(err))
		return nil, err
	}

	s.logger.Info("order cancelled",
		zap.Int64("orderId", orderID),
		zap.String("reason", reason),
		zap.Bool("stockRestored", wasValidated))

	return s.orderRepo.FindByID(ctx, orderID)
}

// buildLines resolves the requested products and captures their current
// prices. Unknown products are a 404, inactive or foreign-shop products
// a 422.
func (s *LifecycleService) buildLines(ctx context.Context, shopID int64, reqs []dto.LineRequest) ([]domain.OrderLine, error) {
	ids := make([]int64, 0, len(reqs))
	for _, req := range reqs {
		ids = append(ids, req.ProductID)
	}

	products, err := s.stockRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	lines := make([]domain.OrderLine, 0, len(reqs))
	for _, req := range reqs {
		p, ok := products[req.ProductID]
		if !ok {
			return nil, apperrors.NewNotFoundError("product not found")
		}
		if !p.Active {
			return nil, apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
				Field:   "lines",
				Message: "product " + p.Name + " is inactive",
			})
		}
		if p.ShopID != shopID {
			return nil, apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
				Field:   "lines",
				Message: "product " + p.Name + " belongs to another shop",
			})
		}

		qty := decimal.NewFromInt(int64(req.Quantity))
		lines = append(lines, domain.OrderLine{
			ProductID: req.ProductID,
			Quantity:  req.Quantity,
			UnitPrice: p.Price,
			Subtotal:  p.Price.Mul(qty),
		})
	}

	return lines, nil
}

func (s *LifecycleService) buildPrintPayload(ctx context.Context, o *domain.Order, invoice domain.Invoice) (*dto.PrintPayload, error) {
	shopName, err := s.orderRepo.ShopName(ctx, o.ShopID)
	if err != nil {
		return nil, err
	}

	names, err := s.orderRepo.Names(ctx, *o)
	if err != nil {
		return nil, err
	}

	d := dto.NewOrderDTO(*o, names[o.ID])
	return &dto.PrintPayload{
		InvoiceNumber: invoice.Number,
		OrderNumber:   o.Number,
		IssuedAt:      invoice.IssuedAt,
		ShopName:      shopName,
		ClientName:    d.ClientName,
		Lines:         d.Lines,
		Total:         o.Total,
	}, nil
}

func validateCreate(req dto.CreateOrderRequest) error {
	details := []apperrors.ValidationDetail{}
	if req.EmployeeID <= 0 {
		details = append(details, apperrors.ValidationDetail{Field: "employee_id", Message: "employee_id is required"})
	}
	if req.Type != domain.OrderTypeInStore && req.Type != domain.OrderTypeDelivery {
		details = append(details, apperrors.ValidationDetail{Field: "type", Message: "type must be in_store or delivery"})
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}
	return validateLines(req.Lines)
}

func validateLines(lines []dto.LineRequest) error {
	if len(lines) == 0 {
		return apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
			Field:   "lines",
			Message: "at least one line is required",
		})
	}
	for _, line := range lines {
		if line.ProductID <= 0 || line.Quantity < 1 {
			return apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
				Field:   "lines",
				Message: "every line needs a product_id and a quantity of at least 1",
			})
		}
	}
	return nil
}

func lineProductIDs(lines []domain.OrderLine) []int64 {
	ids := make([]int64, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.ProductID)
	}
	return ids
}
