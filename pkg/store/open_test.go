package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/de-tools/request-atlas/pkg/models/domain"
	"github.com/de-tools/request-atlas/pkg/services/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_DuckDB(t *testing.T) {
	db, err := Open(context.Background(), config.DatabaseConfig{
		Driver:     domain.DriverDuckDB,
		DuckDBPath: filepath.Join(t.TempDir(), "atlas.db"),
	})
	require.NoError(t, err)
	defer db.Close()

	assert.NoError(t, db.Ping())
}

func TestOpen_PostgresWithoutDSN(t *testing.T) {
	_, err := Open(context.Background(), config.DatabaseConfig{Driver: domain.DriverPostgres})
	assert.EqualError(t, err, "no database dsn or service profile configured")
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(context.Background(), config.DatabaseConfig{Driver: "oracle"})
	assert.EqualError(t, err, `unsupported database driver "oracle"`)
}

func TestPostgresSettings_CarriesPoolAndTimeouts(t *testing.T) {
	cfg := config.DatabaseConfig{
		MaxOpenConns:    8,
		MaxIdleConns:    2,
		ConnMaxLifetime: time.Minute,
		ConnectTimeout:  3 * time.Second,
	}

	settings := postgresSettings(cfg, "host=localhost dbname=311")

	assert.Equal(t, "host=localhost dbname=311", settings.DSN)
	assert.Equal(t, 8, settings.MaxOpenConns)
	assert.Equal(t, 2, settings.MaxIdleConns)
	assert.Equal(t, time.Minute, settings.ConnMaxLifetime)
	assert.Equal(t, 3*time.Second, settings.ConnectTimeout)
}
