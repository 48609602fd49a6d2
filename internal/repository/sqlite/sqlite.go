// Package sqlite implements the question and answer stores on database/sql
// with the modernc SQLite driver.
//
// Ids are stored as canonical UUID text and creation times as Unix
// microseconds, which keeps ordering identical to the PostgreSQL backend.
package sqlite

import (
	"context"
	"database/sql"
	"time"
)

// DBTX is satisfied by *sql.DB, *sql.Conn and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func toMicros(value time.Time) int64 {
	return value.UTC().UnixMicro()
}

func fromMicros(value int64) time.Time {
	return time.UnixMicro(value).UTC()
}

// now returns the creation timestamp at the stored precision.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
