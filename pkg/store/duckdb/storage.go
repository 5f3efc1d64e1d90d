package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/marcboeker/go-duckdb/v2"
)

const RequestTypesSchema = `
	CREATE TABLE IF NOT EXISTS request_types (
		type_id INTEGER PRIMARY KEY,
		type_name VARCHAR NOT NULL
	);
`
const CouncilsSchema = `
	CREATE TABLE IF NOT EXISTS councils (
		council_id INTEGER PRIMARY KEY,
		council_name VARCHAR NOT NULL
	);
`
const SourcesSchema = `
	CREATE TABLE IF NOT EXISTS sources (
		source_id INTEGER PRIMARY KEY,
		source_name VARCHAR NOT NULL
	);
`
const AgenciesSchema = `
	CREATE TABLE IF NOT EXISTS agencies (
		agency_id INTEGER PRIMARY KEY,
		agency_name VARCHAR NOT NULL
	);
`
const ServiceRequestsSchema = `
	CREATE TABLE IF NOT EXISTS service_requests (
		request_id VARCHAR PRIMARY KEY,
		created_date TIMESTAMP NOT NULL,
		closed_date TIMESTAMP NULL,
		type_id INTEGER NOT NULL,
		council_id INTEGER NOT NULL,
		source_id INTEGER NOT NULL,
		agency_id INTEGER NOT NULL,
		address VARCHAR,
		latitude DOUBLE,
		longitude DOUBLE
	);
`

var bootQueries = []string{
	RequestTypesSchema,
	CouncilsSchema,
	SourcesSchema,
	AgenciesSchema,
	ServiceRequestsSchema,
}

// Tables lists the dataset tables, dimensions before the fact table.
var Tables = []string{"request_types", "councils", "sources", "agencies", "service_requests"}

type Settings struct {
	DbPath  string
	Threads int
}

func NewDB(settings Settings) (*sql.DB, error) {
	threads := settings.Threads
	if threads <= 0 {
		threads = 4
	}
	dsn := fmt.Sprintf("%s?threads=%d", settings.DbPath, threads)

	c, err := duckdb.NewConnector(dsn, func(exec driver.ExecerContext) error {
		for _, query := range bootQueries {
			_, err := exec.ExecContext(context.Background(), query, nil)
			if err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	db := sql.OpenDB(c)
	return db, nil
}
