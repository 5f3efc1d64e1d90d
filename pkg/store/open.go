package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/de-tools/request-atlas/pkg/models/domain"
	"github.com/de-tools/request-atlas/pkg/services/config"
	"github.com/de-tools/request-atlas/pkg/store/duckdb"
	"github.com/de-tools/request-atlas/pkg/store/postgres"
	"github.com/rs/zerolog"
)

// Open connects to the report database selected by cfg.Driver.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	logger := zerolog.Ctx(ctx)

	switch cfg.Driver {
	case domain.DriverDuckDB:
		logger.Info().Str("path", cfg.DuckDBPath).Msg("opening embedded dataset")
		db, err := duckdb.NewDB(duckdb.Settings{DbPath: cfg.DuckDBPath})
		if err != nil {
			return nil, fmt.Errorf("failed to create DuckDB instance: %w", err)
		}
		return db, nil
	case domain.DriverPostgres:
		dsn, err := config.ResolveDSN(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if dsn == "" {
			return nil, fmt.Errorf("no database dsn or service profile configured")
		}
		logger.Info().Str("service", cfg.Service).Msg("connecting to postgres")
		return postgres.NewDB(ctx, postgresSettings(cfg, dsn))
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func postgresSettings(cfg config.DatabaseConfig, dsn string) postgres.Settings {
	return postgres.Settings{
		DSN:             dsn,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
		ConnectTimeout:  cfg.ConnectTimeout,
	}
}
