// Package sqlerr specifically handles database driver errors.
//
// It classifies PostgreSQL and SQLite driver errors into a small set of
// codes, wraps them in the StorageError returned by every repository, and
// converts them into user-friendly API errors (e.g., converting a
// "foreign key violation" into a "Bad Request" error)
package sqlerr
