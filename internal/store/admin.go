// Package store provides database access methods for all Directorio
// entities. Each store struct wraps a *sql.DB and exposes typed query methods.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"directorio/internal/models"
)

// AdminStore handles the operators who log in to the admin API.
type AdminStore struct {
	db *sql.DB
}

// NewAdminStore creates a new AdminStore with the given database connection.
func NewAdminStore(db *sql.DB) *AdminStore {
	return &AdminStore{db: db}
}

const adminColumns = `id, username, password_hash, totp_secret, totp_enabled, created_at, updated_at`

func scanAdmin(row scanner) (*models.Admin, error) {
	a := &models.Admin{}
	err := row.Scan(
		&a.ID, &a.Username, &a.PasswordHash,
		&a.TOTPSecret, &a.TOTPEnabled, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// FindByUsername retrieves an admin by username. Returns ErrNotFound if
// there is no such admin.
func (s *AdminStore) FindByUsername(ctx context.Context, username string) (*models.Admin, error) {
	a, err := scanAdmin(s.db.QueryRowContext(ctx,
		`SELECT `+adminColumns+` FROM admins WHERE username = $1`, username))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("find admin by username: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find admin by username: %w", err)
	}
	return a, nil
}

// FindByID retrieves an admin by UUID. Returns ErrNotFound if there is no
// such admin.
func (s *AdminStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Admin, error) {
	a, err := scanAdmin(s.db.QueryRowContext(ctx,
		`SELECT `+adminColumns+` FROM admins WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("find admin by id: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find admin by id: %w", err)
	}
	return a, nil
}

// Create inserts a new admin with a bcrypt-hashed password.
func (s *AdminStore) Create(ctx context.Context, username, password string) (*models.Admin, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	a, err := scanAdmin(s.db.QueryRowContext(ctx, `
		INSERT INTO admins (username, password_hash)
		VALUES ($1, $2)
		RETURNING `+adminColumns, username, string(hash)))
	if err != nil {
		return nil, fmt.Errorf("create admin: %w", err)
	}
	return a, nil
}

// SetTOTPSecret saves the TOTP secret for an admin (during 2FA setup).
func (s *AdminStore) SetTOTPSecret(ctx context.Context, adminID uuid.UUID, secret string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE admins SET totp_secret = $1, updated_at = NOW() WHERE id = $2
	`, secret, adminID)
	if err != nil {
		return fmt.Errorf("set totp secret: %w", err)
	}
	return nil
}

// EnableTOTP marks 2FA as active for an admin (after successful code verification).
func (s *AdminStore) EnableTOTP(ctx context.Context, adminID uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE admins SET totp_enabled = TRUE, updated_at = NOW() WHERE id = $1
	`, adminID)
	if err != nil {
		return fmt.Errorf("enable totp: %w", err)
	}
	return nil
}

// CheckPassword verifies a plaintext password against the admin's stored hash.
func (s *AdminStore) CheckPassword(admin *models.Admin, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)) == nil
}
