// Package router sets up all HTTP routes and middleware chains for the
// Directorio admin API. Reads of public collections are open; everything
// else sits behind the session gate and CSRF protection.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"directorio/internal/handlers"
	"directorio/internal/middleware"
)

// Handlers groups the handler sets served by the router.
type Handlers struct {
	Articles   *handlers.Articles
	Listings   *handlers.Listings
	Users      *handlers.Users
	Categories *handlers.Categories
	Session    *handlers.Session
	Dashboard  *handlers.Dashboard
	Uploads    *handlers.Uploads
}

// Options configures the middleware stack.
type Options struct {
	// CORSOrigins are the admin frontend origins allowed to send
	// credentialed requests.
	CORSOrigins []string

	// SecureCookies marks the CSRF cookie Secure (HTTPS only).
	SecureCookies bool

	// LoginLimiter throttles POST /session. Nil disables throttling.
	LoginLimiter *middleware.RateLimiter
}

// New creates the chi router with all middleware and routes wired up.
func New(sessions middleware.SessionGetter, h Handlers, opts Options) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(chimw.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(newCORS(opts.CORSOrigins))
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(sessions))

	r.Get("/health", healthHandler)

	// Public reads.
	r.Get("/categories", h.Categories.List)
	r.Get("/articles", h.Articles.List)
	r.Get("/articles/{id}", h.Articles.Get)
	r.Get("/listings", h.Listings.List)
	r.Get("/listings/{id}", h.Listings.Get)

	login := http.HandlerFunc(h.Session.Login)
	if opts.LoginLimiter != nil {
		r.Method(http.MethodPost, "/session", opts.LoginLimiter.Middleware(login))
	} else {
		r.Method(http.MethodPost, "/session", login)
	}

	// Everything below requires a session; mutations also need the CSRF
	// header.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Use(middleware.NewCSRF(opts.SecureCookies))

		r.Get("/session", h.Session.Current)
		r.Delete("/session", h.Session.Logout)
		r.Post("/session/2fa/setup", h.Session.TwoFASetup)
		r.Post("/session/2fa/enable", h.Session.TwoFAEnable)

		r.Post("/articles", h.Articles.Create)
		r.Put("/articles", h.Articles.Update)
		r.Put("/articles/{id}", h.Articles.Update)
		r.Delete("/articles", h.Articles.Delete)
		r.Delete("/articles/{id}", h.Articles.Delete)

		r.Post("/listings", h.Listings.Create)
		r.Put("/listings", h.Listings.Update)
		r.Put("/listings/{id}", h.Listings.Update)
		r.Delete("/listings", h.Listings.Delete)
		r.Delete("/listings/{id}", h.Listings.Delete)

		r.Get("/users", h.Users.List)
		r.Delete("/users", h.Users.Delete)
		r.Delete("/users/{id}", h.Users.Delete)

		r.With(middleware.NoCache).Get("/dashboard", h.Dashboard.Show)

		r.Post("/uploads", h.Uploads.Upload)
	})

	return r
}

// newCORS allows the admin frontend to call the API with its cookies.
func newCORS(origins []string) func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowCredentials: true,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", middleware.CSRFHeaderName},
		MaxAge:           600,
	}).Handler
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
