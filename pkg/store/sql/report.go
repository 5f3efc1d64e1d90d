package sql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/de-tools/request-atlas/pkg/metrics"
	"github.com/de-tools/request-atlas/pkg/models/domain"
	"github.com/rs/zerolog"
)

const DefaultQueryTimeout = 30 * time.Second

type ReportStore interface {
	RunReport(ctx context.Context, stmt domain.Statement) ([]domain.ReportRow, error)
	Ping(ctx context.Context) error
}

type reportStore struct {
	db      *sql.DB
	timeout time.Duration
}

func NewReportStore(db *sql.DB, timeout time.Duration) (ReportStore, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	if timeout <= 0 {
		timeout = DefaultQueryTimeout
	}
	return &reportStore{
		db:      db,
		timeout: timeout,
	}, nil
}

func (s *reportStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *reportStore) RunReport(ctx context.Context, stmt domain.Statement) ([]domain.ReportRow, error) {
	logger := zerolog.Ctx(ctx)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	rows, err := s.query(ctx, stmt)
	metrics.ReportQueryDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		outcome := "error"
		if errors.Is(err, context.DeadlineExceeded) {
			outcome = "timeout"
		}
		metrics.ReportQueries.WithLabelValues(outcome).Inc()
		logger.Error().
			Err(err).
			Str("sql", stmt.SQL).
			Interface("args", stmt.Args).
			Msg("report query failed")
		return nil, fmt.Errorf("%w: %w", domain.ErrQueryExecution, err)
	}

	metrics.ReportQueries.WithLabelValues("ok").Inc()
	metrics.ReportRows.Observe(float64(len(rows)))
	logger.Debug().
		Int("rows", len(rows)).
		Dur("elapsed", time.Since(start)).
		Msg("report query finished")

	return rows, nil
}

func (s *reportStore) query(ctx context.Context, stmt domain.Statement) ([]domain.ReportRow, error) {
	logger := zerolog.Ctx(ctx)

	rows, err := s.db.QueryContext(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return nil, err
	}
	defer func(rows *sql.Rows) {
		err := rows.Close()
		if err != nil {
			logger.Warn().Err(err).Msg("failed to close report query rows")
		}
	}(rows)

	result := []domain.ReportRow{}
	for rows.Next() {
		dest := make([]any, len(stmt.Columns))
		for i, col := range stmt.Columns {
			dest[i] = newScanTarget(col.Kind)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan report row: %w", err)
		}

		row := make(domain.ReportRow, len(stmt.Columns))
		for i, col := range stmt.Columns {
			row[i] = domain.Cell{Label: col.Label, Value: scannedValue(dest[i])}
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func newScanTarget(kind domain.ValueKind) any {
	switch kind {
	case domain.KindInteger:
		return new(sql.NullInt64)
	case domain.KindDate:
		return new(sql.NullTime)
	default:
		return new(sql.NullString)
	}
}

func scannedValue(v any) any {
	switch v := v.(type) {
	case *sql.NullInt64:
		if v.Valid {
			return v.Int64
		}
	case *sql.NullTime:
		if v.Valid {
			return v.Time.Format(time.DateOnly)
		}
	case *sql.NullString:
		if v.Valid {
			return v.String
		}
	}
	return nil
}
