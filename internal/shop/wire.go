package shop

import (
	"database/sql"

	"go.uber.org/zap"

	"biosen/internal/upload"
)

func NewModule(db *sql.DB, storage *upload.Storage, logger *zap.Logger) *Controller {
	repo := NewMySQLRepository(db)
	service := NewService(repo, storage, logger)
	return NewController(service, logger)
}
