package auth

import (
	"database/sql"
	"time"

	"go.uber.org/zap"
)

type Module struct {
	Controller *Controller
	Middleware *Middleware
}

func NewModule(db *sql.DB, mailer Mailer, logger *zap.Logger, tokenTTL time.Duration, resetURL string) *Module {
	repo := NewMySQLAuthRepository(db)
	service := NewService(repo, mailer, logger, resetURL)

	return &Module{
		Controller: NewController(service, logger),
		Middleware: NewMiddleware(repo, logger, tokenTTL),
	}
}
