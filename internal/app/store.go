// Package app wires the configured storage backend.
package app

import (
	"context"
	"fmt"

	"expense-tracker/internal/repository"
	"expense-tracker/internal/repository/memory"
	"expense-tracker/pkg/config"
	"expense-tracker/pkg/postgres"
	"expense-tracker/pkg/sqlite"

	"go.uber.org/zap"
)

// Store is a TransactionStore together with whatever must be released on exit.
type Store struct {
	repository.TransactionStore
	cleanup func()
}

func (s *Store) Close() {
	if s.cleanup != nil {
		s.cleanup()
	}
}

// OpenStore connects to the backend named by cfg.Database.Backend and applies
// migrations when auto-migrate is on.
func OpenStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Store, error) {
	switch cfg.Database.Backend {
	case config.BackendPostgres:
		return openPostgres(ctx, &cfg.Database, logger)
	case config.BackendSQLite:
		return openSQLite(ctx, &cfg.Database, logger)
	case config.BackendMemory:
		logger.Warn("Using in-memory backend, data is lost on restart")
		return &Store{TransactionStore: memory.New()}, nil
	default:
		return nil, fmt.Errorf("unsupported data backend: %s", cfg.Database.Backend)
	}
}

func openPostgres(ctx context.Context, cfg *config.DatabaseConfig, logger *zap.Logger) (*Store, error) {
	if cfg.AutoMigrate {
		if err := repository.MigratePostgres(cfg.PostgresURL()); err != nil {
			return nil, fmt.Errorf("migrate postgres: %w", err)
		}
		logger.Info("Database migrations applied", zap.String("backend", config.BackendPostgres))
	}

	pool, err := postgres.NewPool(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	return &Store{
		TransactionStore: repository.NewTransactionRepository(pool, logger),
		cleanup:          pool.Close,
	}, nil
}

func openSQLite(ctx context.Context, cfg *config.DatabaseConfig, logger *zap.Logger) (*Store, error) {
	db, err := sqlite.Open(ctx, cfg.SQLitePath, logger)
	if err != nil {
		return nil, err
	}

	if cfg.AutoMigrate {
		if err := repository.MigrateSQLite(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate sqlite: %w", err)
		}
		logger.Info("Database migrations applied", zap.String("backend", config.BackendSQLite))
	}

	return &Store{
		TransactionStore: repository.NewSQLiteRepository(db, logger),
		cleanup:          func() { db.Close() },
	}, nil
}
