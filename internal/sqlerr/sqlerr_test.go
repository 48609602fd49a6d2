package sqlerr

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/deppfellow/qa-service/internal/errs"
	"github.com/jackc/pgx/v5/pgconn"
	_ "modernc.org/sqlite"
)

func TestMapCode(t *testing.T) {
	t.Parallel()

	tests := map[string]Code{
		"23502": NotNullViolation,
		"23503": ForeignKeyViolation,
		"23505": UniqueViolation,
		"23514": CheckViolation,
		"22001": StringDataRightTruncation,
		"08006": ConnectionFailure,
		"42P01": Other,
	}
	for state, want := range tests {
		if got := MapCode(state); got != want {
			t.Fatalf("MapCode(%q) = %q, want %q", state, got, want)
		}
	}
}

func TestWrapPgForeignKey(t *testing.T) {
	t.Parallel()

	pgErr := &pgconn.PgError{
		Code:           "23503",
		Severity:       "ERROR",
		Message:        "insert or update on table \"answer\" violates foreign key constraint",
		TableName:      "answer",
		ColumnName:     "question_id",
		ConstraintName: "answer_question_id_fkey",
	}

	err := Wrap("create_answer", fmt.Errorf("exec: %w", pgErr))

	var storageErr *StorageError
	if !errors.As(err, &storageErr) {
		t.Fatalf("expected *StorageError, got %T", err)
	}
	if storageErr.Code != ForeignKeyViolation {
		t.Fatalf("code = %q, want %q", storageErr.Code, ForeignKeyViolation)
	}
	if storageErr.Table != "answer" || storageErr.Column != "question_id" {
		t.Fatalf("relation = %s.%s, want answer.question_id", storageErr.Table, storageErr.Column)
	}
	if !errors.Is(err, ErrForeignKeyViolation) {
		t.Fatal("expected errors.Is(err, ErrForeignKeyViolation)")
	}
	if !errors.Is(err, ErrStorage) {
		t.Fatal("expected errors.Is(err, ErrStorage)")
	}

	var unwrapped *pgconn.PgError
	if !errors.As(err, &unwrapped) {
		t.Fatal("expected the driver error to stay reachable")
	}
}

func TestWrapUnclassified(t *testing.T) {
	t.Parallel()

	err := Wrap("list_questions", context.DeadlineExceeded)

	if ErrCode(err) != Other {
		t.Fatalf("code = %q, want %q", ErrCode(err), Other)
	}
	if !errors.Is(err, ErrStorage) {
		t.Fatal("expected errors.Is(err, ErrStorage)")
	}
	if errors.Is(err, ErrForeignKeyViolation) {
		t.Fatal("did not expect a foreign key violation")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatal("expected the cause to stay reachable")
	}
}

func TestWrapKeepsNilAndStorageErrors(t *testing.T) {
	t.Parallel()

	if err := Wrap("delete_answer", nil); err != nil {
		t.Fatalf("Wrap(nil) = %v, want nil", err)
	}

	original := ForeignKey("create_answer", "answer", "question_id")
	if got := Wrap("other_op", original); got != original {
		t.Fatalf("Wrap rewrapped an existing storage error: %v", got)
	}
}

func TestWrapSQLiteConstraint(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	if _, err := db.ExecContext(ctx, "CREATE TABLE question (id TEXT PRIMARY KEY, title TEXT NOT NULL CHECK (length(title) <= 3))"); err != nil {
		t.Fatalf("create table: %v", err)
	}
	if _, err := db.ExecContext(ctx, "INSERT INTO question (id, title) VALUES ('a', 'abc')"); err != nil {
		t.Fatalf("insert: %v", err)
	}

	tests := []struct {
		name  string
		query string
		want  Code
	}{
		{name: "duplicate key", query: "INSERT INTO question (id, title) VALUES ('a', 'abc')", want: UniqueViolation},
		{name: "null column", query: "INSERT INTO question (id, title) VALUES ('b', NULL)", want: NotNullViolation},
		{name: "check", query: "INSERT INTO question (id, title) VALUES ('c', 'abcd')", want: CheckViolation},
	}

	for _, tt := range tests {
		_, execErr := db.ExecContext(ctx, tt.query)
		if execErr == nil {
			t.Fatalf("%s: expected an error", tt.name)
		}

		err := Wrap("create_question", execErr)
		if got := ErrCode(err); got != tt.want {
			t.Fatalf("%s: code = %q, want %q (%v)", tt.name, got, tt.want, execErr)
		}
	}

	_, execErr := db.ExecContext(ctx, "INSERT INTO question (id, title) VALUES ('a', 'abc')")
	var storageErr *StorageError
	if !errors.As(Wrap("create_question", execErr), &storageErr) {
		t.Fatal("expected *StorageError")
	}
	if storageErr.Table != "question" || storageErr.Column != "id" {
		t.Fatalf("relation = %s.%s, want question.id", storageErr.Table, storageErr.Column)
	}
}

func TestHandleErrorForeignKey(t *testing.T) {
	t.Parallel()

	err := HandleError(ForeignKey("create_answer", "answer", "question_id"))

	var httpErr *errs.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected *errs.HTTPError, got %T", err)
	}
	if httpErr.Status != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", httpErr.Status, http.StatusBadRequest)
	}
	if httpErr.Code != "QUESTION_NOT_FOUND" {
		t.Fatalf("code = %q, want %q", httpErr.Code, "QUESTION_NOT_FOUND")
	}
	if httpErr.Message != "The referenced question does not exist" {
		t.Fatalf("message = %q", httpErr.Message)
	}
}

func TestHandleErrorStorageFailure(t *testing.T) {
	t.Parallel()

	err := HandleError(Wrap("list_answers", errors.New("connection reset")))

	var httpErr *errs.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected *errs.HTTPError, got %T", err)
	}
	if httpErr.Status != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", httpErr.Status, http.StatusInternalServerError)
	}
	if httpErr.Message != http.StatusText(http.StatusInternalServerError) {
		t.Fatalf("message leaks details: %q", httpErr.Message)
	}
}

func TestHandleErrorPassesHTTPErrors(t *testing.T) {
	t.Parallel()

	original := errs.NewBadRequestError("bad", false, nil, nil, nil)
	if got := HandleError(original); got != error(original) {
		t.Fatalf("HandleError rewrote an HTTP error: %v", got)
	}
}

func TestGenerateErrorCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		table, column string
		code          Code
		want          string
	}{
		{"answer", "question_id", ForeignKeyViolation, "QUESTION_NOT_FOUND"},
		{"questions", "", UniqueViolation, "QUESTION_ALREADY_EXISTS"},
		{"", "", CheckViolation, "RECORD_INVALID"},
		{"answer", "content", NotNullViolation, "ANSWER_REQUIRED"},
	}
	for _, tt := range tests {
		if got := generateErrorCode(tt.table, tt.column, tt.code); got != tt.want {
			t.Fatalf("generateErrorCode(%q, %q, %q) = %q, want %q", tt.table, tt.column, tt.code, got, tt.want)
		}
	}
}
