package handlers

import (
	"context"
	"net/http"

	"directorio/internal/models"
)

// recentCount is how many recent articles and listings the dashboard shows.
const recentCount = 5

type articleSummary interface {
	Count(ctx context.Context) (int, error)
	Recent(ctx context.Context, n int) ([]models.Article, error)
}

type listingSummary interface {
	Count(ctx context.Context) (int, error)
	Recent(ctx context.Context, n int) ([]models.Listing, error)
}

type counter interface {
	Count(ctx context.Context) (int, error)
}

// StatusSource provides the latest service probe results. *status.Monitor
// satisfies it.
type StatusSource interface {
	Snapshot(ctx context.Context) models.SystemStatus
}

// Dashboard serves the admin overview.
type Dashboard struct {
	articles articleSummary
	listings listingSummary
	users    counter
	status   StatusSource
}

func NewDashboard(articles articleSummary, listings listingSummary, users counter, status StatusSource) *Dashboard {
	return &Dashboard{articles: articles, listings: listings, users: users, status: status}
}

// Show returns totals, the most recent articles and listings and the
// system status. The route sets no-cache headers.
func (h *Dashboard) Show(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	d := models.Dashboard{
		RecentBlogs: []models.Article{},
		RecentPosts: []models.Listing{},
	}

	var err error
	if d.TotalBlogs, err = h.articles.Count(ctx); err != nil {
		writeStoreError(w, r, err, "")
		return
	}
	if d.TotalPublications, err = h.listings.Count(ctx); err != nil {
		writeStoreError(w, r, err, "")
		return
	}
	if d.TotalUsers, err = h.users.Count(ctx); err != nil {
		writeStoreError(w, r, err, "")
		return
	}

	blogs, err := h.articles.Recent(ctx, recentCount)
	if err != nil {
		writeStoreError(w, r, err, "")
		return
	}
	if blogs != nil {
		d.RecentBlogs = blogs
	}

	posts, err := h.listings.Recent(ctx, recentCount)
	if err != nil {
		writeStoreError(w, r, err, "")
		return
	}
	if posts != nil {
		d.RecentPosts = posts
	}

	d.SystemStatus = h.status.Snapshot(ctx)
	writeJSON(w, http.StatusOK, d)
}
