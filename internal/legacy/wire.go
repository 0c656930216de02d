package legacy

import (
	"database/sql"

	"go.uber.org/zap"
)

func NewModule(legacyDB *sql.DB, logger *zap.Logger) (*Handler, error) {
	repo := NewMySQLRepository(legacyDB)
	return NewHandler(repo, logger)
}
