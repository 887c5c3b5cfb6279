package database

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/richxcame/carwash-booking/pkg/config"
	"github.com/richxcame/carwash-booking/pkg/logger"
	"go.uber.org/zap"
)

// Migrate applies every pending up migration found at cfg.MigrationsPath
func Migrate(cfg *config.DatabaseConfig) error {
	m, err := migrate.New(cfg.MigrationsPath, cfg.URL())
	if err != nil {
		return fmt.Errorf("unable to initialize migrations: %w", err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil || dbErr != nil {
			logger.Warn("failed to close migrator", zap.NamedError("source", srcErr), zap.NamedError("database", dbErr))
		}
	}()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to read migration version: %w", err)
	}
	logger.Info("database migrations applied", zap.Uint("version", version), zap.Bool("dirty", dirty))

	return nil
}
