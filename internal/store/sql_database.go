package store

import (
	"database/sql"

	"github.com/MKhiriev/go-calendar-sync/internal/logger"
	"github.com/MKhiriev/go-calendar-sync/migrations"
)

// Supported database dialects. The value doubles as the goose dialect
// string, so it must stay in sync with what [migrations.Migrate] accepts.
const (
	DialectPostgres = "pgx"
	DialectSQLite   = "sqlite3"
)

// ErrorClassification is the result type returned by [ErrorClassificator.Classify].
// It indicates whether a failed database operation should be retried or
// abandoned.
type ErrorClassification int

const (
	// NonRetryable indicates that the failed operation should not be retried.
	// This is the default classification for unrecognised errors, constraint
	// violations, syntax errors, and data exceptions.
	NonRetryable ErrorClassification = iota

	// Retryable indicates that the failed operation may succeed if attempted
	// again (e.g. after a transient connection loss or a deadlock rollback).
	Retryable
)

// ErrorClassificator inspects driver-level errors so repositories can make
// dialect-independent decisions. Each supported engine has its own
// implementation.
type ErrorClassificator interface {
	// Classify reports whether the operation that produced err is worth
	// retrying. A nil err is NonRetryable.
	Classify(err error) ErrorClassification

	// IsUniqueViolation reports whether err was caused by a uniqueness
	// constraint (duplicate login, already-opened window).
	IsUniqueViolation(err error) bool
}

// DB wraps the raw connection together with the dialect-specific error
// classifier the repositories consult.
type DB struct {
	*sql.DB
	errorClassificator ErrorClassificator
	dialect            string
	logger             *logger.Logger
}

// Migrate brings the schema up to date for the connection's dialect.
func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB, db.dialect)
}
