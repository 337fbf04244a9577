package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"expense-tracker/internal/api"
	"expense-tracker/internal/api/handlers"
	"expense-tracker/internal/app"
	"expense-tracker/internal/service"
	"expense-tracker/pkg/auth"
	"expense-tracker/pkg/broker"
	"expense-tracker/pkg/config"
	"expense-tracker/pkg/logger"

	"go.uber.org/zap"
)

// @title Expense Tracker API
// @version 1.0
// @description Personal finance tracking: transactions, summaries and month-end projections.

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8000
// @BasePath /

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logger.Level, cfg.Logger.Format); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting expense tracker",
		zap.String("environment", cfg.App.Env),
		zap.String("backend", cfg.Database.Backend),
	)

	ctx := context.Background()
	store, err := app.OpenStore(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to open transaction store", zap.Error(err))
	}
	defer store.Close()

	var publisher service.MessagePublisher
	if cfg.AMQP.URL != "" {
		client, err := broker.NewClient(cfg.AMQP.URL, cfg.AMQP.Exchange, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to connect to AMQP broker", zap.Error(err))
		}
		defer client.Close()
		publisher = client
	} else {
		appLogger.Info("AMQP_URL not set, transaction events are disabled")
	}

	var jwtManager *auth.JWTManager
	if cfg.Auth.JWTSecret != "" {
		jwtManager = auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	}

	clock := service.NewClock(cfg.Location())
	events := service.NewEventEmitter(publisher, cfg.AMQP.RoutingKeyPrefix, appLogger)

	txService := service.NewTransactionService(store, events, clock, appLogger)
	summaryService := service.NewSummaryService(store, clock, appLogger)

	txHandler := handlers.NewTransactionHandler(txService, appLogger)
	summaryHandler := handlers.NewSummaryHandler(summaryService, appLogger)
	healthHandler := handlers.NewHealthHandler(cfg)

	server := api.SetupRouter(cfg, txHandler, summaryHandler, healthHandler, jwtManager, appLogger)

	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := server.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	if err := server.ShutdownWithTimeout(10 * time.Second); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
}
