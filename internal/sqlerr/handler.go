package sqlerr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/deppfellow/qa-service/internal/errs"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// generateErrorCode creates consistent "application error codes" from DB errors.
//
// Output format:
//
//	<ENTITY>_<ACTION>
//
// Example:
//
//	answer.question_id + ForeignKeyViolation => QUESTION_NOT_FOUND
//
// For foreign keys the entity is the referenced one, taken from the
// column name; otherwise it is the table, crudely singularized.
func generateErrorCode(tableName, columnName string, errType Code) string {
	domain := strings.ToUpper(strings.ReplaceAll(getEntityName(tableName, ""), " ", "_"))
	if errType == ForeignKeyViolation && referencedEntity(columnName) != "" {
		domain = strings.ToUpper(referencedEntity(columnName))
	}

	action := "ERROR"
	switch errType {
	case ForeignKeyViolation:
		action = "NOT_FOUND"
	case UniqueViolation:
		action = "ALREADY_EXISTS"
	case NotNullViolation:
		action = "REQUIRED"
	case CheckViolation:
		action = "INVALID"
	}

	return fmt.Sprintf("%s_%s", domain, action)
}

// referencedEntity returns "question" for "question_id".
func referencedEntity(columnName string) string {
	lower := strings.ToLower(columnName)
	if !strings.HasSuffix(lower, "_id") {
		return ""
	}
	return strings.TrimSuffix(lower, "_id")
}

// getEntityName tries to infer a human entity name from table/column data.
//
// Priority rules:
//  1. If column ends with "_id", use that base name. (Best for FK relations)
//     e.g. "question_id" -> "Question"
//  2. Otherwise use table name, singularized if it ends with "s".
//  3. Otherwise fallback to "record".
func getEntityName(tableName, columnName string) string {
	if entity := referencedEntity(columnName); entity != "" {
		return humanizeText(entity)
	}

	if tableName != "" {
		entity := tableName
		if strings.HasSuffix(entity, "s") && len(entity) > 1 {
			entity = entity[:len(entity)-1]
		}
		return humanizeText(entity)
	}

	return "record"
}

// humanizeText converts snake_case identifiers into Title Case.
//
// Example:
//
//	"first_name" -> "First Name"
func humanizeText(text string) string {
	if text == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ReplaceAll(text, "_", " "))
}

// HandleError converts an error returned below the handlers into an
// *errs.HTTPError.
//
// Output:
//   - *errs.HTTPError: returned unchanged
//   - foreign key violation: 400 naming the missing referenced entity
//   - anything else: 500, details stay in the logs
//
// The stores never report a missing record, so there is no 404 branch.
func HandleError(err error) error {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}

	table, column := "", ""

	var storageErr *StorageError
	var sqlErr *Error
	switch {
	case errors.As(err, &storageErr):
		table, column = storageErr.Table, storageErr.Column
	case errors.As(err, &sqlErr):
		table, column = sqlErr.TableName, sqlErr.ColumnName
	}

	if ErrCode(err) == ForeignKeyViolation {
		errorCode := generateErrorCode(table, column, ForeignKeyViolation)
		message := fmt.Sprintf("The referenced %s does not exist", strings.ToLower(getEntityName(table, column)))
		return errs.NewBadRequestError(message, true, &errorCode, nil, nil)
	}

	return errs.NewInternalServerError()
}
