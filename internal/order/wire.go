package order

import (
	"database/sql"

	"go.uber.org/zap"

	"biosen/internal/order/controller"
	"biosen/internal/order/repository"
	"biosen/internal/order/service"
)

func NewModule(db *sql.DB, logger *zap.Logger) *controller.OrderController {
	orderRepo := repository.NewMySQLOrderRepository(db)
	stockRepo := repository.NewMySQLStockRepository(db)
	seqRepo := repository.NewMySQLSequenceRepository(db)
	invoiceRepo := repository.NewMySQLInvoiceRepository(db)

	lifecycleSvc := service.NewLifecycleService(
		db,
		orderRepo,
		stockRepo,
		seqRepo,
		invoiceRepo,
		logger,
	)

	return controller.NewOrderController(lifecycleSvc, logger)
}
