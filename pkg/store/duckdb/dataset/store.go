package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/de-tools/request-atlas/pkg/store/duckdb"
)

// Store loads CSV exports into the embedded dataset. Writes join the
// transaction carried by ctx, if any.
type Store interface {
	ImportCSV(ctx context.Context, table, path string) (int64, error)
	Count(ctx context.Context, table string) (int64, error)
}

type datasetStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &datasetStore{db: db}, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *datasetStore) conn(ctx context.Context) execer {
	if tx := duckdb.GetTransaction(ctx); tx != nil {
		return tx
	}
	return s.db
}

func checkTable(table string) error {
	if !slices.Contains(duckdb.Tables, table) {
		return fmt.Errorf("unknown dataset table %q", table)
	}
	return nil
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func (s *datasetStore) ImportCSV(ctx context.Context, table, path string) (int64, error) {
	if err := checkTable(table); err != nil {
		return 0, err
	}

	// read_csv arguments are bound at prepare time, so the path is a literal.
	source := sq.Select("*").From("read_csv(" + quoteLiteral(path) + ", header = true, auto_detect = true)")
	query, args, err := sq.Insert(table + " BY NAME").Select(source).ToSql()
	if err != nil {
		return 0, fmt.Errorf("import %s: %w", table, err)
	}

	res, err := s.conn(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("import %s from %s: %w", table, path, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("import %s: %w", table, err)
	}
	return n, nil
}

func (s *datasetStore) Count(ctx context.Context, table string) (int64, error) {
	if err := checkTable(table); err != nil {
		return 0, err
	}
	query, args, err := sq.Select("count(*)").From(table).ToSql()
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}

	var n int64
	err = s.conn(ctx).QueryRowContext(ctx, query, args...).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}
