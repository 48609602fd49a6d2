package sqlerr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
)

var (
	// ErrStorage matches every *StorageError.
	ErrStorage = errors.New("storage error")

	// ErrForeignKeyViolation matches a *StorageError whose code is
	// ForeignKeyViolation.
	ErrForeignKeyViolation = errors.New("foreign key violation")
)

// StorageError is the only error type returned by the repositories.
//
// Op names the repository operation (e.g. "create_answer"). Table and
// Column describe the offending relation when the driver reported one.
type StorageError struct {
	Op     string
	Code   Code
	Table  string
	Column string
	Err    error
}

func (e *StorageError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Code)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Code, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Is lets callers test the classification with errors.Is.
func (e *StorageError) Is(target error) bool {
	switch target {
	case ErrStorage:
		return true
	case ErrForeignKeyViolation:
		return e.Code == ForeignKeyViolation
	default:
		return false
	}
}

// Wrap classifies a driver error as a *StorageError for op. A nil err
// stays nil and an existing *StorageError is returned unchanged.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}

	var storageErr *StorageError
	if errors.As(err, &storageErr) {
		return err
	}

	out := &StorageError{Op: op, Code: Other, Err: err}

	var pgErr *pgconn.PgError
	var liteErr *sqlite.Error
	switch {
	case errors.As(err, &pgErr):
		converted := ConvertPgError(pgErr)
		out.Code = converted.Code
		out.Table = converted.TableName
		out.Column = converted.ColumnName
		out.Err = converted
	case errors.As(err, &liteErr):
		converted := ConvertSQLiteError(liteErr)
		out.Code = converted.Code
		out.Table = converted.TableName
		out.Column = converted.ColumnName
		out.Err = converted
	}

	return out
}

// ForeignKey reports that column of table references a row that does not
// exist.
func ForeignKey(op, table, column string) error {
	return &StorageError{
		Op:     op,
		Code:   ForeignKeyViolation,
		Table:  table,
		Column: column,
		Err:    fmt.Errorf("%s.%s references a missing row", table, column),
	}
}

// ErrCode reports the Code of the first classified error in err's chain, or
// Other.
func ErrCode(err error) Code {
	var storageErr *StorageError
	if errors.As(err, &storageErr) {
		return storageErr.Code
	}

	var sqlErr *Error
	if errors.As(err, &sqlErr) {
		return sqlErr.Code
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return MapCode(pgErr.Code)
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return mapSQLiteCode(liteErr.Code())
	}

	return Other
}
