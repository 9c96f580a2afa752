package db

import "time"

// Config describes a MariaDB connection pool.
type Config struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	// MultiStatements is only needed by the migration runner.
	MultiStatements bool
}
