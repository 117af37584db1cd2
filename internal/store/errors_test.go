package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestMapConstraintError(t *testing.T) {
	other := errors.New("connection reset")

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"duplicate slug", &pgconn.PgError{Code: "23505", ConstraintName: "articles_slug_key"}, ErrDuplicateSlug},
		{"wrapped duplicate slug", fmt.Errorf("insert: %w",
			&pgconn.PgError{Code: "23505", ConstraintName: "articles_slug_key"}), ErrDuplicateSlug},
		{"article category fk", &pgconn.PgError{Code: "23503", ConstraintName: "articles_category_name_fkey"}, ErrUnknownCategory},
		{"listing category fk", &pgconn.PgError{Code: "23503", ConstraintName: "listings_category_name_fkey"}, ErrUnknownCategory},
		{"listing user fk", &pgconn.PgError{Code: "23503", ConstraintName: "listings_user_id_fkey"}, ErrUnknownUser},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mapConstraintError(tt.err); !errors.Is(got, tt.want) {
				t.Errorf("mapConstraintError() = %v, want %v", got, tt.want)
			}
		})
	}

	t.Run("unrelated errors pass through", func(t *testing.T) {
		if got := mapConstraintError(other); got != other {
			t.Errorf("got %v, want %v", got, other)
		}
		unique := &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
		if got := mapConstraintError(unique); got != error(unique) {
			t.Errorf("got %v, want original pg error", got)
		}
	})
}

func TestValidationErrorMessage(t *testing.T) {
	err := invalid("title", "is required")
	if got, want := err.Error(), "validation: title: is required"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
