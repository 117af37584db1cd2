package handlers

import (
	"context"
	"net/http"

	"directorio/internal/cache"
	"directorio/internal/models"
)

// CategoryLister is satisfied by *store.CategoryStore.
type CategoryLister interface {
	List(ctx context.Context) ([]models.Category, error)
}

// Categories serves the read-only category list.
type Categories struct {
	store CategoryLister
	cache *cache.ListCache
}

func NewCategories(s CategoryLister, lists *cache.ListCache) *Categories {
	return &Categories{store: s, cache: lists}
}

func (h *Categories) List(w http.ResponseWriter, r *http.Request) {
	categories, err := cache.Fetch(r.Context(), h.cache, cache.KeyCategories, h.store.List)
	if err != nil {
		writeStoreError(w, r, err, "Category not found")
		return
	}
	writeJSON(w, http.StatusOK, categories)
}
