package sql

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/de-tools/request-atlas/pkg/models/domain"
	"github.com/de-tools/request-atlas/pkg/services/report"
	"github.com/de-tools/request-atlas/pkg/store/duckdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportStore_RunReport_ScansTypedColumns(t *testing.T) {
	// Given
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	q, err := report.BuildQuery(
		[]string{"type_name", "created_date", "created_hour"},
		[]string{"created_date>=2021-01-01"},
	)
	require.NoError(t, err)
	stmt, err := q.Statement()
	require.NoError(t, err)

	day := time.Date(2021, 1, 4, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"type_name", "created_date", "created_hour", "counts"}).
		AddRow("Bulky Items", day, int64(9), int64(12)).
		AddRow(nil, day, nil, int64(1))
	mock.ExpectQuery(regexp.QuoteMeta(stmt.SQL)).
		WithArgs("2021-01-01").
		WillReturnRows(rows)

	store, err := NewReportStore(db, time.Second)
	require.NoError(t, err)

	// When
	result, err := store.RunReport(context.Background(), stmt)

	// Then
	require.NoError(t, err)
	assert.Equal(t, []domain.ReportRow{
		{
			{Label: "type_name", Value: "Bulky Items"},
			{Label: "created_date", Value: "2021-01-04"},
			{Label: "created_hour", Value: int64(9)},
			{Label: "counts", Value: int64(12)},
		},
		{
			{Label: "type_name", Value: nil},
			{Label: "created_date", Value: "2021-01-04"},
			{Label: "created_hour", Value: nil},
			{Label: "counts", Value: int64(1)},
		},
	}, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportStore_RunReport_EmptyResult(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	q, err := report.BuildQuery([]string{"council_name"}, nil)
	require.NoError(t, err)
	stmt, err := q.Statement()
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta(stmt.SQL)).
		WillReturnRows(sqlmock.NewRows([]string{"council_name", "counts"}))

	store, err := NewReportStore(db, 0)
	require.NoError(t, err)

	result, err := store.RunReport(context.Background(), stmt)
	require.NoError(t, err)
	assert.NotNil(t, result)
	assert.Empty(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportStore_RunReport_WrapsDatabaseErrors(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	q, err := report.BuildQuery([]string{"created_year"}, []string{"created_year=abc"})
	require.NoError(t, err)
	stmt, err := q.Statement()
	require.NoError(t, err)

	dbErr := errors.New(`invalid input syntax for type integer: "abc"`)
	mock.ExpectQuery(regexp.QuoteMeta(stmt.SQL)).
		WithArgs("abc").
		WillReturnError(dbErr)

	store, err := NewReportStore(db, time.Second)
	require.NoError(t, err)

	_, err = store.RunReport(context.Background(), stmt)
	assert.ErrorIs(t, err, domain.ErrQueryExecution)
	assert.ErrorIs(t, err, dbErr)
	assert.False(t, domain.IsInvalidRequest(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportStore_RunReport_AppliesTimeout(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	q, err := report.BuildQuery([]string{"source_name"}, nil)
	require.NoError(t, err)
	stmt, err := q.Statement()
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta(stmt.SQL)).
		WillDelayFor(time.Second).
		WillReturnRows(sqlmock.NewRows([]string{"source_name", "counts"}).AddRow("Mobile App", int64(3)))

	store, err := NewReportStore(db, 20*time.Millisecond)
	require.NoError(t, err)

	_, err = store.RunReport(context.Background(), stmt)
	assert.ErrorIs(t, err, domain.ErrQueryExecution)
}

func TestNewReportStore_NilDB(t *testing.T) {
	_, err := NewReportStore(nil, time.Second)
	assert.EqualError(t, err, "database connection is nil")
}

func seedDuckDB(t *testing.T) ReportStore {
	db, err := duckdb.NewDB(duckdb.Settings{DbPath: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
	})

	seed := []string{
		`INSERT INTO request_types VALUES (1, 'Bulky Items'), (2, 'Graffiti Removal')`,
		`INSERT INTO councils VALUES (1, 'Arleta'), (2, 'Venice')`,
		`INSERT INTO sources VALUES (1, 'Mobile App'), (2, 'Call')`,
		`INSERT INTO agencies VALUES (1, 'Sanitation'), (2, 'Public Works')`,
		`INSERT INTO service_requests (request_id, created_date, type_id, council_id, source_id, agency_id) VALUES
			('r1', TIMESTAMP '2021-01-04 09:15:00', 1, 1, 1, 1),
			('r2', TIMESTAMP '2021-01-04 17:40:00', 1, 1, 2, 1),
			('r3', TIMESTAMP '2021-01-05 08:00:00', 2, 2, 1, 2),
			('r4', TIMESTAMP '2020-12-30 11:00:00', 1, 2, 1, 1)`,
	}
	for _, q := range seed {
		_, err := db.Exec(q)
		require.NoError(t, err)
	}

	store, err := NewReportStore(db, 5*time.Second)
	require.NoError(t, err)
	return store
}

func runDuckDBReport(t *testing.T, store ReportStore, fields, filters []string) []domain.ReportRow {
	q, err := report.BuildQuery(fields, filters)
	require.NoError(t, err)
	stmt, err := q.Statement()
	require.NoError(t, err)
	rows, err := store.RunReport(context.Background(), stmt)
	require.NoError(t, err)
	return rows
}

func TestReportStore_DuckDB_GroupsAndCounts(t *testing.T) {
	store := seedDuckDB(t)

	rows := runDuckDBReport(t, store,
		[]string{"type_name", "created_date"},
		[]string{"created_date>=2021-01-01"},
	)

	assert.ElementsMatch(t, []domain.ReportRow{
		{
			{Label: "type_name", Value: "Bulky Items"},
			{Label: "created_date", Value: "2021-01-04"},
			{Label: "counts", Value: int64(2)},
		},
		{
			{Label: "type_name", Value: "Graffiti Removal"},
			{Label: "created_date", Value: "2021-01-05"},
			{Label: "counts", Value: int64(1)},
		},
	}, rows)
}

func TestReportStore_DuckDB_FilterOrderDoesNotChangeResult(t *testing.T) {
	store := seedDuckDB(t)

	a := runDuckDBReport(t, store,
		[]string{"council_name"},
		[]string{"created_date>=2021-01-01", "council_name=Arleta"},
	)
	b := runDuckDBReport(t, store,
		[]string{"council_name"},
		[]string{"council_name=Arleta", "created_date>=2021-01-01"},
	)

	assert.Equal(t, []domain.ReportRow{{
		{Label: "council_name", Value: "Arleta"},
		{Label: "counts", Value: int64(2)},
	}}, a)
	assert.ElementsMatch(t, a, b)
}

func TestReportStore_DuckDB_OutOfRangeLiteralReturnsNoRows(t *testing.T) {
	store := seedDuckDB(t)

	rows := runDuckDBReport(t, store, []string{"created_hour"}, []string{"created_hour>=25"})
	assert.Empty(t, rows)
}

func TestReportStore_DuckDB_NoFiltersCountsEverything(t *testing.T) {
	store := seedDuckDB(t)

	rows := runDuckDBReport(t, store, []string{"created_year"}, []string{})

	assert.ElementsMatch(t, []domain.ReportRow{
		{{Label: "created_year", Value: int64(2020)}, {Label: "counts", Value: int64(1)}},
		{{Label: "created_year", Value: int64(2021)}, {Label: "counts", Value: int64(3)}},
	}, rows)
}
