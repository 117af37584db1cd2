package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// Seed creates the initial admin account if no admin exists yet. An empty
// password disables seeding; config leaves it empty in production unless
// ADMIN_PASSWORD is set explicitly.
func Seed(db *sql.DB, username, password string) error {
	if username == "" || password == "" {
		slog.Info("admin seed disabled, no credentials configured")
		return nil
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM admins").Scan(&count); err != nil {
		return fmt.Errorf("seed check admins: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO admins (username, password_hash)
		VALUES ($1, $2)
	`, username, string(hash))
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	slog.Info("database seeded with default admin", "username", username)
	return nil
}
