package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/de-tools/request-atlas/pkg/models/domain"
	"github.com/de-tools/request-atlas/pkg/store/duckdb"
	"github.com/de-tools/request-atlas/pkg/store/duckdb/dataset"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type ImportCmd struct {
	env Env
	dir string
}

func NewImportCmd(env Env) *cobra.Command {
	ic := &ImportCmd{env: env}
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load CSV exports into the embedded DuckDB dataset",
		Long: `Loads <table>.csv files from --dir into the DuckDB dataset configured by
database.duckdb_path. Tables: request_types, councils, sources, agencies,
service_requests. Missing files are skipped; columns are matched by header name.`,
		RunE: ic.run,
	}

	cmd.Flags().StringVar(&ic.dir, "dir", "", "Directory containing the CSV exports")
	_ = cmd.MarkFlagRequired("dir")

	return cmd
}

func (ic *ImportCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logger := zerolog.Ctx(ctx)

	cfg, err := ic.env.Config()
	if err != nil {
		return err
	}
	dbCfg := cfg.Database
	dbCfg.Driver = domain.DriverDuckDB

	db, err := ic.env.OpenDB(ctx, dbCfg)
	if err != nil {
		return err
	}
	defer db.Close()

	store, err := dataset.NewStore(db)
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()
	txCtx := duckdb.WithTransaction(ctx, tx)

	var imported int
	for _, table := range duckdb.Tables {
		path := filepath.Join(ic.dir, table+".csv")
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			logger.Warn().Str("table", table).Str("path", path).Msg("no csv export found, skipping")
			continue
		}

		n, err := store.ImportCSV(txCtx, table, path)
		if err != nil {
			return err
		}
		imported++
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d rows\n", table, n)
	}

	if imported == 0 {
		return fmt.Errorf("no csv exports found in %s", ic.dir)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}
	return nil
}
