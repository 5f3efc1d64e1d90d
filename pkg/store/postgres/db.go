package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
)

type Settings struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnectTimeout  time.Duration
}

const defaultConnectTimeout = 5 * time.Second

// connConfig parses the DSN; a non-zero ConnectTimeout overrides any
// connect_timeout given in the DSN.
func connConfig(settings Settings) (*pgx.ConnConfig, error) {
	cfg, err := pgx.ParseConfig(settings.DSN)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database dsn: %w", err)
	}
	if settings.ConnectTimeout > 0 {
		cfg.ConnectTimeout = settings.ConnectTimeout
	}
	return cfg, nil
}

// NewDB opens a pooled *sql.DB on the pgx driver and checks connectivity.
func NewDB(ctx context.Context, settings Settings) (*sql.DB, error) {
	cfg, err := connConfig(settings)
	if err != nil {
		return nil, err
	}

	db := stdlib.OpenDB(*cfg)
	db.SetMaxOpenConns(settings.MaxOpenConns)
	db.SetMaxIdleConns(settings.MaxIdleConns)
	db.SetConnMaxLifetime(settings.ConnMaxLifetime)

	pingTimeout := cfg.ConnectTimeout
	if pingTimeout <= 0 {
		pingTimeout = defaultConnectTimeout
	}
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return db, nil
}
