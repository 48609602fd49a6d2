package sqlerr

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Code is a driver independent classification of a database error.
type Code string

const (
	Other                     Code = "other"
	NotNullViolation          Code = "not_null_violation"
	ForeignKeyViolation       Code = "foreign_key_violation"
	UniqueViolation           Code = "unique_violation"
	CheckViolation            Code = "check_violation"
	ExclusionViolation        Code = "exclusion_violation"
	StringDataRightTruncation Code = "string_data_right_truncation"
	InvalidTextRepresentation Code = "invalid_text_representation"
	ConnectionFailure         Code = "connection_failure"
	Busy                      Code = "busy"
)

// Severity mirrors the PostgreSQL severity levels.
type Severity string

const (
	SeverityError   Severity = "ERROR"
	SeverityFatal   Severity = "FATAL"
	SeverityPanic   Severity = "PANIC"
	SeverityWarning Severity = "WARNING"
	SeverityNotice  Severity = "NOTICE"
	SeverityDebug   Severity = "DEBUG"
	SeverityInfo    Severity = "INFO"
	SeverityLog     Severity = "LOG"
)

// Error is a database error normalised from a driver specific type.
type Error struct {
	Code           Code
	Severity       Severity
	DatabaseCode   string
	Message        string
	SchemaName     string
	TableName      string
	ColumnName     string
	DataTypeName   string
	ConstraintName string
	driverErr      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s (%s)", e.Severity, e.Message, e.DatabaseCode)
}

// Unwrap returns the original driver error.
func (e *Error) Unwrap() error {
	return e.driverErr
}

// MapCode maps a PostgreSQL SQLSTATE onto Code.
func MapCode(sqlState string) Code {
	switch sqlState {
	case "23502":
		return NotNullViolation
	case "23503":
		return ForeignKeyViolation
	case "23505":
		return UniqueViolation
	case "23514":
		return CheckViolation
	case "23P01":
		return ExclusionViolation
	case "22001":
		return StringDataRightTruncation
	case "22P02":
		return InvalidTextRepresentation
	}

	// Class 08: connection exception.
	if strings.HasPrefix(sqlState, "08") {
		return ConnectionFailure
	}
	return Other
}

// MapSeverity maps a PostgreSQL severity string onto Severity.
func MapSeverity(severity string) Severity {
	switch Severity(strings.ToUpper(severity)) {
	case SeverityFatal:
		return SeverityFatal
	case SeverityPanic:
		return SeverityPanic
	case SeverityWarning:
		return SeverityWarning
	case SeverityNotice:
		return SeverityNotice
	case SeverityDebug:
		return SeverityDebug
	case SeverityInfo:
		return SeverityInfo
	case SeverityLog:
		return SeverityLog
	default:
		return SeverityError
	}
}

// ConvertPgError converts a pgconn.PgError (raw Postgres error) into Error.
func ConvertPgError(src *pgconn.PgError) *Error {
	return &Error{
		Code:           MapCode(src.Code),
		Severity:       MapSeverity(src.Severity),
		DatabaseCode:   src.Code,
		Message:        src.Message,
		SchemaName:     src.SchemaName,
		TableName:      src.TableName,
		ColumnName:     src.ColumnName,
		DataTypeName:   src.DataTypeName,
		ConstraintName: src.ConstraintName,
		driverErr:      src,
	}
}

// mapSQLiteCode maps an extended SQLite result code onto Code.
func mapSQLiteCode(code int) Code {
	switch code {
	case sqlite3.SQLITE_CONSTRAINT_NOTNULL:
		return NotNullViolation
	case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
		return ForeignKeyViolation
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return UniqueViolation
	case sqlite3.SQLITE_CONSTRAINT_CHECK:
		return CheckViolation
	case sqlite3.SQLITE_TOOBIG:
		return StringDataRightTruncation
	case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
		return Busy
	case sqlite3.SQLITE_CANTOPEN, sqlite3.SQLITE_IOERR:
		return ConnectionFailure
	default:
		return Other
	}
}

// ConvertSQLiteError converts a modernc sqlite error into Error.
//
// SQLite reports the offending table and column only in the message, e.g.
// "UNIQUE constraint failed: question.id", so they are parsed from there.
func ConvertSQLiteError(src *sqlite.Error) *Error {
	out := &Error{
		Code:         mapSQLiteCode(src.Code()),
		Severity:     SeverityError,
		DatabaseCode: strconv.Itoa(src.Code()),
		Message:      src.Error(),
		driverErr:    src,
	}

	// The driver prefixes the code name and appends the numeric code:
	// "constraint failed: UNIQUE constraint failed: question.id (1555)".
	const marker = "constraint failed: "
	if i := strings.LastIndex(src.Error(), marker); i >= 0 {
		target := src.Error()[i+len(marker):]
		if j := strings.Index(target, " ("); j >= 0 {
			target = target[:j]
		}
		target = strings.TrimSpace(strings.SplitN(target, ",", 2)[0])
		if table, column, ok := strings.Cut(target, "."); ok && !strings.ContainsAny(target, " ()") {
			out.TableName = table
			out.ColumnName = column
		} else {
			out.ConstraintName = target
		}
	}

	return out
}
