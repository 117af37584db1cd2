package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"directorio/internal/models"
)

// UserStore handles directory members, their listings and likes.
type UserStore struct {
	db       *sql.DB
	listings *ListingStore
}

// NewUserStore creates a new UserStore with the given database connection.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db, listings: NewListingStore(db)}
}

// Create inserts a new directory user.
func (s *UserStore) Create(ctx context.Context, email, name string) (*models.User, error) {
	u := &models.User{}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (email, name) VALUES ($1, $2)
		RETURNING id, email, name, created_at
	`, email, name).Scan(&u.ID, &u.Email, &u.Name, &u.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// FindByID retrieves a user without listings or likes. Returns ErrNotFound
// if there is no such user.
func (s *UserStore) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u := &models.User{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, email, name, created_at FROM users WHERE id = $1`, id,
	).Scan(&u.ID, &u.Email, &u.Name, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("find user by id: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

// List returns all users ordered by email, each with their listings
// (category and images included) and their likes.
func (s *UserStore) List(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, email, name, created_at FROM users ORDER BY email ASC`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	index := make(map[uuid.UUID]int)
	var ids []uuid.UUID
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		u.Listings = []models.Listing{}
		u.Likes = []models.Like{}
		index[u.ID] = len(users)
		ids = append(ids, u.ID)
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	if len(users) == 0 {
		return users, nil
	}

	listings, err := s.listings.ListByUsers(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	for _, l := range listings {
		i := index[l.UserID]
		users[i].Listings = append(users[i].Listings, l)
	}

	likeRows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, listing_id, created_at FROM likes
		WHERE user_id = ANY($1::uuid[])
		ORDER BY created_at ASC
	`, idStrings(ids))
	if err != nil {
		return nil, fmt.Errorf("list likes: %w", err)
	}
	defer likeRows.Close()

	for likeRows.Next() {
		var like models.Like
		if err := likeRows.Scan(&like.ID, &like.UserID, &like.ListingID, &like.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan like: %w", err)
		}
		i := index[like.UserID]
		users[i].Likes = append(users[i].Likes, like)
	}
	return users, likeRows.Err()
}

// Count returns the number of users.
func (s *UserStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}

// Like records that userID liked listingID. Liking twice is a no-op.
func (s *UserStore) Like(ctx context.Context, userID, listingID uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO likes (user_id, listing_id) VALUES ($1, $2)
		ON CONFLICT ON CONSTRAINT likes_user_listing_key DO NOTHING
	`, userID, listingID)
	if err != nil {
		return fmt.Errorf("like listing: %w", err)
	}
	return nil
}

// Delete removes the user and everything hanging off them in one
// transaction: likes given by the user, likes and images of the user's
// listings, the listings, and finally the user row.
func (s *UserStore) Delete(ctx context.Context, id uuid.UUID) error {
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		var locked uuid.UUID
		err := tx.QueryRowContext(ctx, `SELECT id FROM users WHERE id = $1 FOR UPDATE`, id).Scan(&locked)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("lock user: %w", err)
		}

		steps := []struct{ name, query string }{
			{"likes by user", `DELETE FROM likes WHERE user_id = $1`},
			{"likes on listings", `DELETE FROM likes WHERE listing_id IN (SELECT id FROM listings WHERE user_id = $1)`},
			{"listing images", `DELETE FROM listing_images WHERE listing_id IN (SELECT id FROM listings WHERE user_id = $1)`},
			{"listings", `DELETE FROM listings WHERE user_id = $1`},
			{"user", `DELETE FROM users WHERE id = $1`},
		}
		for _, step := range steps {
			if _, err := tx.ExecContext(ctx, step.query, id); err != nil {
				return fmt.Errorf("delete %s: %w", step.name, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}
