package domain

import "fmt"

type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverDuckDB   Driver = "duckdb"
)

// ConnectionProfile is a named database connection read from a service file.
type ConnectionProfile struct {
	Name   string
	Driver Driver
	DSN    string
}

func (c ConnectionProfile) String() string {
	return fmt.Sprintf("%s:%s", c.Driver, c.Name)
}
