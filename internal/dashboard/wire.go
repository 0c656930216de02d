package dashboard

import (
	"database/sql"

	"go.uber.org/zap"

	"biosen/internal/product"
)

func NewModule(db *sql.DB, logger *zap.Logger) *Controller {
	repo := NewMySQLRepository(db)
	service := NewService(repo, product.NewMySQLRepository(db), logger)
	return NewController(service, logger)
}
