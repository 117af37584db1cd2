package store

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound is returned when the addressed record does not exist.
	ErrNotFound = errors.New("store: record not found")

	// ErrUnknownCategory is returned when a write names a category that is
	// not in the categories table.
	ErrUnknownCategory = errors.New("store: unknown category")

	// ErrUnknownUser is returned when a listing names an owner that does
	// not exist.
	ErrUnknownUser = errors.New("store: unknown user")

	// ErrDuplicateSlug is returned when an article title produces a slug
	// that another article already uses.
	ErrDuplicateSlug = errors.New("store: slug already in use")
)

// ValidationError reports a malformed write payload. It is returned before
// any statement is executed.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Message)
}

func invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// PostgreSQL SQLSTATE codes we translate.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// mapConstraintError translates constraint violations raised by PostgreSQL
// into the package's sentinel errors. Other errors are returned unchanged.
func mapConstraintError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		if pgErr.ConstraintName == "articles_slug_key" {
			return ErrDuplicateSlug
		}
	case pgForeignKeyViolation:
		switch pgErr.ConstraintName {
		case "articles_category_name_fkey", "listings_category_name_fkey":
			return ErrUnknownCategory
		case "listings_user_id_fkey":
			return ErrUnknownUser
		}
	}
	return err
}
