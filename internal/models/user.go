// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a directory member. Users own listings and like them; they never
// log in to the admin API.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`

	// Populated by UserStore.List.
	Listings []Listing `json:"posts"`
	Likes    []Like    `json:"likes"`
}

// UserSummary is the owner shown next to a listing.
type UserSummary struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
}

// Like records that a user liked a listing.
type Like struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	ListingID uuid.UUID `json:"postId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Admin is an operator of the admin API.
type Admin struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Never serialize the hash
	TOTPSecret   *string   `json:"-"` // Nullable; set during 2FA setup
	TOTPEnabled  bool      `json:"totpEnabled"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// RequiresTOTP returns true when login must include a one-time code.
func (a *Admin) RequiresTOTP() bool {
	return a.TOTPEnabled && a.TOTPSecret != nil
}
