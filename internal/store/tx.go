package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// querier is satisfied by *sql.DB and *sql.Tx so read helpers can run
// inside or outside a transaction.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// withTx runs fn in a read-committed transaction. The transaction is
// committed only if fn returns nil; on any error it is rolled back and
// no statement issued by fn becomes visible to other connections.
func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// withSnapshot runs fn in a read-only repeatable-read transaction so that
// multi-query reads (a parent and its child collections) observe a single
// committed state.
func withSnapshot(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return fmt.Errorf("begin read tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// insertRows executes query once per row using a prepared statement.
// args returns the bind values for row i.
func insertRows(ctx context.Context, tx *sql.Tx, query string, n int, args func(i int) []any) error {
	if n == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for i := 0; i < n; i++ {
		if _, err := stmt.ExecContext(ctx, args(i)...); err != nil {
			return mapConstraintError(err)
		}
	}
	return nil
}

// requireCategory fails with ErrUnknownCategory unless name exists.
func requireCategory(ctx context.Context, q querier, name string) error {
	var exists bool
	err := q.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM categories WHERE name = $1)`, name,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check category: %w", err)
	}
	if !exists {
		return ErrUnknownCategory
	}
	return nil
}

// requireUser fails with ErrUnknownUser unless the user exists.
func requireUser(ctx context.Context, q querier, id uuid.UUID) error {
	var exists bool
	err := q.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, id,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check user: %w", err)
	}
	if !exists {
		return ErrUnknownUser
	}
	return nil
}

// idStrings converts ids for use with `= ANY($1::uuid[])`.
func idStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
