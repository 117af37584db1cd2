// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"context"
	"database/sql"
	"os"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"directorio/internal/database"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "directorio")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "directorio")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped. A cleanup
// function is registered to close the connection when the test finishes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := testDSN()
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	// Run migrations to ensure the schema is current.
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	// Downgrade goose global state.
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// cleanUsers removes test users, their listings and likes by email. Call in t.Cleanup().
func cleanUsers(t *testing.T, db *sql.DB, emails ...string) {
	t.Helper()
	for _, email := range emails {
		db.Exec(`DELETE FROM likes WHERE user_id IN (SELECT id FROM users WHERE email = $1)
			OR listing_id IN (SELECT l.id FROM listings l JOIN users u ON u.id = l.user_id WHERE u.email = $1)`, email)
		db.Exec(`DELETE FROM listing_images WHERE listing_id IN
			(SELECT l.id FROM listings l JOIN users u ON u.id = l.user_id WHERE u.email = $1)`, email)
		db.Exec(`DELETE FROM listings WHERE user_id IN (SELECT id FROM users WHERE email = $1)`, email)
		db.Exec("DELETE FROM users WHERE email = $1", email)
	}
}

// cleanArticles removes test articles by slug. Child rows cascade. Call in t.Cleanup().
func cleanArticles(t *testing.T, db *sql.DB, slugs ...string) {
	t.Helper()
	for _, slug := range slugs {
		db.Exec("DELETE FROM articles WHERE slug = $1", slug)
	}
}

// cleanAdmins removes test admins by username. Call in t.Cleanup().
func cleanAdmins(t *testing.T, db *sql.DB, usernames ...string) {
	t.Helper()
	for _, username := range usernames {
		db.Exec("DELETE FROM admins WHERE username = $1", username)
	}
}

// countRows returns the number of rows in table whose column equals arg.
func countRows(t *testing.T, db *sql.DB, table, column string, arg any) int {
	t.Helper()
	var n int
	if err := db.QueryRowContext(context.Background(),
		"SELECT COUNT(*) FROM "+table+" WHERE "+column+" = $1", arg).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}
