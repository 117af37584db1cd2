package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"directorio/internal/models"
)

// ListingStore reads and writes listings and their images.
type ListingStore struct {
	db *sql.DB
}

// NewListingStore creates a new ListingStore with the given database connection.
func NewListingStore(db *sql.DB) *ListingStore {
	return &ListingStore{db: db}
}

const listingColumns = `
	l.id, l.name, l.title, l.description, l.category_name, l.city, l.hood,
	l.latitude, l.longitude, l.phone, l.instagram, l.facebook, l.tiktok,
	l.delivery, l.price, l.promotion, l.user_id, l.created_at, l.updated_at,
	c.id, c.name, c.created_at,
	u.id, u.email, u.name`

const listingFrom = `
	FROM listings l
	JOIN categories c ON c.name = l.category_name
	JOIN users u ON u.id = l.user_id`

// scanListing scans a row selected with listingColumns.
func scanListing(row scanner) (*models.Listing, error) {
	var l models.Listing
	var c models.Category
	var u models.UserSummary
	var promotion sql.NullString
	err := row.Scan(
		&l.ID, &l.Name, &l.Title, &l.Description, &l.CategoryName, &l.City, &l.Hood,
		&l.Latitude, &l.Longitude, &l.Phone, &l.Instagram, &l.Facebook, &l.TikTok,
		&l.Delivery, &l.Price, &promotion, &l.UserID, &l.CreatedAt, &l.UpdatedAt,
		&c.ID, &c.Name, &c.CreatedAt,
		&u.ID, &u.Email, &u.Name,
	)
	if err != nil {
		return nil, err
	}
	if promotion.Valid {
		l.Promotion = models.Promotion(promotion.String)
	}
	l.Category = &c
	l.User = &u
	l.Images = []models.ListingImage{}
	return &l, nil
}

// List returns all listings with category, owner and images, newest first.
func (s *ListingStore) List(ctx context.Context) ([]models.Listing, error) {
	return s.list(ctx, `SELECT `+listingColumns+listingFrom+` ORDER BY l.created_at DESC`)
}

// Recent returns the n most recently created listings.
func (s *ListingStore) Recent(ctx context.Context, n int) ([]models.Listing, error) {
	return s.list(ctx, `SELECT `+listingColumns+listingFrom+` ORDER BY l.created_at DESC LIMIT $1`, n)
}

// ListByUsers returns the listings owned by any of the given users, with
// images, oldest first.
func (s *ListingStore) ListByUsers(ctx context.Context, userIDs []uuid.UUID) ([]models.Listing, error) {
	if len(userIDs) == 0 {
		return []models.Listing{}, nil
	}
	return s.list(ctx,
		`SELECT `+listingColumns+listingFrom+` WHERE l.user_id = ANY($1::uuid[]) ORDER BY l.created_at ASC`,
		idStrings(userIDs))
}

func (s *ListingStore) list(ctx context.Context, query string, args ...any) ([]models.Listing, error) {
	var items []models.Listing
	err := withSnapshot(ctx, s.db, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		items = []models.Listing{}
		for rows.Next() {
			l, err := scanListing(rows)
			if err != nil {
				return fmt.Errorf("scan listing: %w", err)
			}
			items = append(items, *l)
		}
		if err := rows.Err(); err != nil {
			return err
		}
		return attachListingImages(ctx, tx, items)
	})
	if err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}
	return items, nil
}

// Count returns the number of listings.
func (s *ListingStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM listings`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count listings: %w", err)
	}
	return count, nil
}

// FindByID returns the listing with category, owner and ordered images.
// Returns ErrNotFound if there is no such listing.
func (s *ListingStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	var listing *models.Listing
	err := withSnapshot(ctx, s.db, func(tx *sql.Tx) error {
		l, err := scanListing(tx.QueryRowContext(ctx,
			`SELECT `+listingColumns+listingFrom+` WHERE l.id = $1`, id))
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		items := []models.Listing{*l}
		if err := attachListingImages(ctx, tx, items); err != nil {
			return err
		}
		listing = &items[0]
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("find listing by id: %w", err)
	}
	return listing, nil
}

// Create inserts a listing and its images in one transaction. The owner
// and category must already exist.
func (s *ListingStore) Create(ctx context.Context, in ListingInput) (*models.Listing, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var id uuid.UUID
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := requireCategory(ctx, tx, in.CategoryName); err != nil {
			return err
		}
		if err := requireUser(ctx, tx, in.ownerID()); err != nil {
			return err
		}

		err := tx.QueryRowContext(ctx, `
			INSERT INTO listings (name, title, description, category_name, city, hood,
			                      latitude, longitude, phone, instagram, facebook, tiktok,
			                      delivery, price, promotion, user_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
			RETURNING id
		`, in.Name, in.Title, in.Description, in.CategoryName, in.City, in.Hood,
			in.Latitude.Ptr(), in.Longitude.Ptr(), in.Phone, in.Instagram, in.Facebook, in.TikTok,
			in.Delivery, in.Price.Ptr(), in.promotion(), in.ownerID(),
		).Scan(&id)
		if err != nil {
			return mapConstraintError(err)
		}

		return insertListingImages(ctx, tx, id, in.imageURLs())
	})
	if err != nil {
		return nil, fmt.Errorf("create listing: %w", err)
	}

	return s.FindByID(ctx, id)
}

// Update replaces every field of the listing and its full image list.
func (s *ListingStore) Update(ctx context.Context, id uuid.UUID, in ListingInput) (*models.Listing, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		var locked uuid.UUID
		err := tx.QueryRowContext(ctx, `SELECT id FROM listings WHERE id = $1 FOR UPDATE`, id).Scan(&locked)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("lock listing: %w", err)
		}

		if err := requireCategory(ctx, tx, in.CategoryName); err != nil {
			return err
		}
		if err := requireUser(ctx, tx, in.ownerID()); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM listing_images WHERE listing_id = $1`, id); err != nil {
			return fmt.Errorf("delete listing images: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE listings SET
				name = $1, title = $2, description = $3, category_name = $4,
				city = $5, hood = $6, latitude = $7, longitude = $8, phone = $9,
				instagram = $10, facebook = $11, tiktok = $12, delivery = $13,
				price = $14, promotion = $15, user_id = $16, updated_at = NOW()
			WHERE id = $17
		`, in.Name, in.Title, in.Description, in.CategoryName,
			in.City, in.Hood, in.Latitude.Ptr(), in.Longitude.Ptr(), in.Phone,
			in.Instagram, in.Facebook, in.TikTok, in.Delivery,
			in.Price.Ptr(), in.promotion(), in.ownerID(), id,
		)
		if err != nil {
			return mapConstraintError(err)
		}

		return insertListingImages(ctx, tx, id, in.imageURLs())
	})
	if err != nil {
		return nil, fmt.Errorf("update listing: %w", err)
	}

	return s.FindByID(ctx, id)
}

// Delete removes the listing together with its likes and images.
func (s *ListingStore) Delete(ctx context.Context, id uuid.UUID) error {
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM likes WHERE listing_id = $1`, id); err != nil {
			return fmt.Errorf("delete likes: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM listing_images WHERE listing_id = $1`, id); err != nil {
			return fmt.Errorf("delete listing images: %w", err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM listings WHERE id = $1`, id)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete listing: %w", err)
	}
	return nil
}

func insertListingImages(ctx context.Context, tx *sql.Tx, listingID uuid.UUID, urls []string) error {
	err := insertRows(ctx, tx,
		`INSERT INTO listing_images (listing_id, url, sort_order) VALUES ($1, $2, $3)`,
		len(urls), func(i int) []any { return []any{listingID, urls[i], i} })
	if err != nil {
		return fmt.Errorf("insert listing images: %w", err)
	}
	return nil
}

// attachListingImages loads the images of every listing in items with a
// single query and assigns them in position order.
func attachListingImages(ctx context.Context, q querier, items []models.Listing) error {
	if len(items) == 0 {
		return nil
	}

	index := make(map[uuid.UUID]int, len(items))
	ids := make([]uuid.UUID, len(items))
	for i := range items {
		index[items[i].ID] = i
		ids[i] = items[i].ID
		items[i].Images = []models.ListingImage{}
	}

	rows, err := q.QueryContext(ctx, `
		SELECT id, listing_id, url, sort_order FROM listing_images
		WHERE listing_id = ANY($1::uuid[])
		ORDER BY listing_id, sort_order
	`, idStrings(ids))
	if err != nil {
		return fmt.Errorf("load listing images: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var img models.ListingImage
		var listingID uuid.UUID
		if err := rows.Scan(&img.ID, &listingID, &img.URL, &img.Order); err != nil {
			return fmt.Errorf("scan listing image: %w", err)
		}
		if i, ok := index[listingID]; ok {
			items[i].Images = append(items[i].Images, img)
		}
	}
	return rows.Err()
}
