package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"directorio/internal/cache"
	"directorio/internal/markdown"
	"directorio/internal/models"
	"directorio/internal/store"
)

// ArticleStore is the part of *store.ArticleStore the handlers use.
type ArticleStore interface {
	List(ctx context.Context) ([]models.Article, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Article, error)
	Create(ctx context.Context, in store.ArticleInput) (*models.Article, error)
	Update(ctx context.Context, id uuid.UUID, in store.ArticleInput) (*models.Article, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

const articleNotFound = "Blog not found"

// Articles serves /articles.
type Articles struct {
	store ArticleStore
	cache *cache.ListCache
}

// NewArticles creates the article handlers. lists may be nil.
func NewArticles(s ArticleStore, lists *cache.ListCache) *Articles {
	return &Articles{store: s, cache: lists}
}

// articlePayload is an article write. ID is only read by PUT /articles.
type articlePayload struct {
	ID string `json:"id"`
	store.ArticleInput
}

// List returns every article, newest first, without child collections.
func (h *Articles) List(w http.ResponseWriter, r *http.Request) {
	articles, err := cache.Fetch(r.Context(), h.cache, cache.KeyArticles, h.store.List)
	if err != nil {
		writeStoreError(w, r, err, articleNotFound)
		return
	}
	writeJSON(w, http.StatusOK, articles)
}

// Get returns one article with its children and rendered section HTML.
func (h *Articles) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := resolveID(w, r, "")
	if !ok {
		return
	}

	article, err := h.store.FindByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, r, err, articleNotFound)
		return
	}
	h.respondDetail(w, r, http.StatusOK, article)
}

// Create stores a new article and its children.
func (h *Articles) Create(w http.ResponseWriter, r *http.Request) {
	var in articlePayload
	if !decodeJSON(w, r, &in) {
		return
	}

	article, err := h.store.Create(r.Context(), in.ArticleInput)
	if err != nil {
		writeStoreError(w, r, err, articleNotFound)
		return
	}

	h.cache.Invalidate(r.Context(), cache.KeyArticles)
	slog.Info("article created", "id", article.ID, "slug", article.Slug)
	h.respondDetail(w, r, http.StatusCreated, article)
}

// Update replaces an article and all of its children. The id comes from
// the path or, on PUT /articles, from the body.
func (h *Articles) Update(w http.ResponseWriter, r *http.Request) {
	var in articlePayload
	if !decodeJSON(w, r, &in) {
		return
	}
	id, ok := resolveID(w, r, in.ID)
	if !ok {
		return
	}

	article, err := h.store.Update(r.Context(), id, in.ArticleInput)
	if err != nil {
		writeStoreError(w, r, err, articleNotFound)
		return
	}

	h.cache.Invalidate(r.Context(), cache.KeyArticles)
	slog.Info("article updated", "id", article.ID, "slug", article.Slug)
	h.respondDetail(w, r, http.StatusOK, article)
}

// Delete removes an article and its children.
func (h *Articles) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := deleteTarget(w, r)
	if !ok {
		return
	}

	if err := h.store.Delete(r.Context(), id); err != nil {
		writeStoreError(w, r, err, articleNotFound)
		return
	}

	h.cache.Invalidate(r.Context(), cache.KeyArticles)
	slog.Info("article deleted", "id", id)
	writeMessage(w, "Blog deleted successfully")
}

func (h *Articles) respondDetail(w http.ResponseWriter, r *http.Request, status int, a *models.Article) {
	if err := markdown.RenderSections(a); err != nil {
		writeStoreError(w, r, err, articleNotFound)
		return
	}
	writeJSON(w, status, a.Detail())
}
