package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"biosen/internal/auth"
	"biosen/internal/bundle"
	"biosen/internal/category"
	"biosen/internal/client"
	"biosen/internal/config"
	"biosen/internal/dashboard"
	"biosen/internal/driver"
	"biosen/internal/employee"
	"biosen/internal/expense"
	"biosen/internal/infrastructure/logger"
	"biosen/internal/infrastructure/mysql"
	"biosen/internal/intake"
	"biosen/internal/invoice"
	"biosen/internal/legacy"
	"biosen/internal/mail"
	"biosen/internal/order"
	"biosen/internal/product"
	"biosen/internal/server"
	"biosen/internal/shop"
	"biosen/internal/upload"
	"biosen/internal/user"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading configuration: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer zapLogger.Sync()

	db, err := mysql.NewConnection(cfg.Database)
	if err != nil {
		zapLogger.Fatal("connecting to database", zap.Error(err))
	}
	defer db.Close()

	storage := upload.NewStorage(cfg.Upload.Dir, zapLogger)
	mailer := mail.New(cfg.Mail, zapLogger)

	controllers := server.Controllers{
		Auth:      auth.NewModule(db, mailer, zapLogger, cfg.Auth.TokenTTL, cfg.Auth.ResetURL),
		User:      user.NewModule(db, storage, zapLogger),
		Shop:      shop.NewModule(db, storage, zapLogger),
		Category:  category.NewModule(db, zapLogger),
		Product:   product.NewModule(db, storage, zapLogger),
		Employee:  employee.NewModule(db, storage, zapLogger),
		Driver:    driver.NewModule(db, zapLogger),
		Client:    client.NewModule(db, zapLogger),
		Order:     order.NewModule(db, zapLogger),
		Invoice:   invoice.NewModule(db, zapLogger),
		Expense:   expense.NewModule(db, zapLogger),
		Bundle:    bundle.NewModule(db, zapLogger),
		Intake:    intake.NewModule(db, zapLogger),
		Dashboard: dashboard.NewModule(db, zapLogger),
		UploadDir: cfg.Upload.Dir,
	}

	if cfg.Legacy.Name != "" {
		legacyDB, err := mysql.NewConnection(cfg.Legacy)
		if err != nil {
			zapLogger.Fatal("connecting to legacy database", zap.Error(err))
		}
		defer legacyDB.Close()

		handler, err := legacy.NewModule(legacyDB, zapLogger)
		if err != nil {
			zapLogger.Fatal("initializing legacy viewer", zap.Error(err))
		}
		controllers.Legacy = handler
	}

	router := server.NewRouter(controllers, zapLogger)
	srv := server.New(cfg.Server, router, zapLogger)

	go func() {
		zapLogger.Info("starting server", zap.Int("port", cfg.Server.Port))
		if err := srv.Start(); err != nil {
			zapLogger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Fatal("forced shutdown", zap.Error(err))
	}

	zapLogger.Info("server stopped")
}
