package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"directorio/internal/cache"
	"directorio/internal/models"
	"directorio/internal/store"
)

// ListingStore is the part of *store.ListingStore the handlers use.
type ListingStore interface {
	List(ctx context.Context) ([]models.Listing, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Listing, error)
	Create(ctx context.Context, in store.ListingInput) (*models.Listing, error)
	Update(ctx context.Context, id uuid.UUID, in store.ListingInput) (*models.Listing, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

const listingNotFound = "Publication not found"

// Listings serves /listings.
type Listings struct {
	store ListingStore
	cache *cache.ListCache
}

// NewListings creates the listing handlers. lists may be nil.
func NewListings(s ListingStore, lists *cache.ListCache) *Listings {
	return &Listings{store: s, cache: lists}
}

type listingPayload struct {
	ID string `json:"id"`
	store.ListingInput
}

// List returns every listing with category, owner and images.
func (h *Listings) List(w http.ResponseWriter, r *http.Request) {
	listings, err := cache.Fetch(r.Context(), h.cache, cache.KeyListings, h.store.List)
	if err != nil {
		writeStoreError(w, r, err, listingNotFound)
		return
	}
	writeJSON(w, http.StatusOK, listings)
}

func (h *Listings) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := resolveID(w, r, "")
	if !ok {
		return
	}
	listing, err := h.store.FindByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, r, err, listingNotFound)
		return
	}
	writeJSON(w, http.StatusOK, listing)
}

func (h *Listings) Create(w http.ResponseWriter, r *http.Request) {
	var in listingPayload
	if !decodeJSON(w, r, &in) {
		return
	}

	listing, err := h.store.Create(r.Context(), in.ListingInput)
	if err != nil {
		writeStoreError(w, r, err, listingNotFound)
		return
	}

	h.invalidate(r.Context())
	slog.Info("listing created", "id", listing.ID, "user_id", listing.UserID)
	writeJSON(w, http.StatusCreated, listing)
}

func (h *Listings) Update(w http.ResponseWriter, r *http.Request) {
	var in listingPayload
	if !decodeJSON(w, r, &in) {
		return
	}
	id, ok := resolveID(w, r, in.ID)
	if !ok {
		return
	}

	listing, err := h.store.Update(r.Context(), id, in.ListingInput)
	if err != nil {
		writeStoreError(w, r, err, listingNotFound)
		return
	}

	h.invalidate(r.Context())
	slog.Info("listing updated", "id", listing.ID)
	writeJSON(w, http.StatusOK, listing)
}

func (h *Listings) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := deleteTarget(w, r)
	if !ok {
		return
	}

	if err := h.store.Delete(r.Context(), id); err != nil {
		writeStoreError(w, r, err, listingNotFound)
		return
	}

	h.invalidate(r.Context())
	slog.Info("listing deleted", "id", id)
	writeMessage(w, "Publication deleted successfully")
}

// invalidate drops the cached listing collection. The user list is read
// uncached, so it needs nothing.
func (h *Listings) invalidate(ctx context.Context) {
	h.cache.Invalidate(ctx, cache.KeyListings)
}
