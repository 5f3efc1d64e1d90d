package commands

import (
	"context"
	"database/sql"

	"github.com/de-tools/request-atlas/pkg/services/config"
)

// Env gives commands access to configuration and the report database
// without each command knowing how they are obtained.
type Env interface {
	Config() (*config.Config, error)
	OpenDB(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error)
}
