package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"directorio/internal/cache"
	"directorio/internal/models"
)

// UserStore is the part of *store.UserStore the handlers use.
type UserStore interface {
	List(ctx context.Context) ([]models.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

const userNotFound = "User not found"

// Users serves /users.
type Users struct {
	store UserStore
	cache *cache.ListCache
}

func NewUsers(s UserStore, lists *cache.ListCache) *Users {
	return &Users{store: s, cache: lists}
}

// List returns every user with their listings and likes. The result is
// not cached; it changes with every listing write.
func (h *Users) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.List(r.Context())
	if err != nil {
		writeStoreError(w, r, err, userNotFound)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// Delete removes a user together with their likes and listings.
func (h *Users) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := deleteTarget(w, r)
	if !ok {
		return
	}

	if err := h.store.Delete(r.Context(), id); err != nil {
		writeStoreError(w, r, err, userNotFound)
		return
	}

	h.cache.Invalidate(r.Context(), cache.KeyListings)
	slog.Info("user deleted", "id", id)
	writeMessage(w, "User deleted successfully")
}
