// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared fakes and request helpers for the handler
// tests. The fakes stand in for the PostgreSQL-backed stores so these tests
// run without any service.
package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"directorio/internal/middleware"
	"directorio/internal/models"
	"directorio/internal/session"
	"directorio/internal/store"
)

// fakeArticles implements ArticleStore with canned results.
type fakeArticles struct {
	article *models.Article
	list    []models.Article
	err     error

	gotID    uuid.UUID
	gotInput store.ArticleInput
	calls    int
}

func (f *fakeArticles) List(context.Context) ([]models.Article, error) {
	f.calls++
	return f.list, f.err
}

func (f *fakeArticles) FindByID(_ context.Context, id uuid.UUID) (*models.Article, error) {
	f.calls++
	f.gotID = id
	return f.article, f.err
}

func (f *fakeArticles) Create(_ context.Context, in store.ArticleInput) (*models.Article, error) {
	f.calls++
	f.gotInput = in
	return f.article, f.err
}

func (f *fakeArticles) Update(_ context.Context, id uuid.UUID, in store.ArticleInput) (*models.Article, error) {
	f.calls++
	f.gotID = id
	f.gotInput = in
	return f.article, f.err
}

func (f *fakeArticles) Delete(_ context.Context, id uuid.UUID) error {
	f.calls++
	f.gotID = id
	return f.err
}

// fakeListings implements ListingStore. With validate set, writes run
// input validation first the way *store.ListingStore does.
type fakeListings struct {
	listing  *models.Listing
	list     []models.Listing
	err      error
	validate bool

	gotID    uuid.UUID
	gotInput store.ListingInput
}

func (f *fakeListings) List(context.Context) ([]models.Listing, error) { return f.list, f.err }

func (f *fakeListings) FindByID(_ context.Context, id uuid.UUID) (*models.Listing, error) {
	f.gotID = id
	return f.listing, f.err
}

func (f *fakeListings) Create(_ context.Context, in store.ListingInput) (*models.Listing, error) {
	f.gotInput = in
	if f.validate {
		if err := in.Validate(); err != nil {
			return nil, err
		}
	}
	return f.listing, f.err
}

func (f *fakeListings) Update(_ context.Context, id uuid.UUID, in store.ListingInput) (*models.Listing, error) {
	f.gotID = id
	f.gotInput = in
	return f.listing, f.err
}

func (f *fakeListings) Delete(_ context.Context, id uuid.UUID) error {
	f.gotID = id
	return f.err
}

// fakeUsers implements UserStore.
type fakeUsers struct {
	list  []models.User
	err   error
	gotID uuid.UUID
}

func (f *fakeUsers) List(context.Context) ([]models.User, error) { return f.list, f.err }

func (f *fakeUsers) Delete(_ context.Context, id uuid.UUID) error {
	f.gotID = id
	return f.err
}

// fakeAdmins implements AdminStore over a single admin with a known
// password.
type fakeAdmins struct {
	admin    *models.Admin
	password string
	findErr  error

	enabled bool
}

func (f *fakeAdmins) FindByUsername(_ context.Context, username string) (*models.Admin, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	if f.admin == nil || f.admin.Username != username {
		return nil, store.ErrNotFound
	}
	return f.admin, nil
}

func (f *fakeAdmins) FindByID(_ context.Context, id uuid.UUID) (*models.Admin, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	if f.admin == nil || f.admin.ID != id {
		return nil, store.ErrNotFound
	}
	return f.admin, nil
}

func (f *fakeAdmins) SetTOTPSecret(_ context.Context, _ uuid.UUID, secret string) error {
	f.admin.TOTPSecret = &secret
	return nil
}

func (f *fakeAdmins) EnableTOTP(context.Context, uuid.UUID) error {
	f.enabled = true
	f.admin.TOTPEnabled = true
	return nil
}

func (f *fakeAdmins) CheckPassword(_ *models.Admin, password string) bool {
	return password == f.password
}

// fakeSessions implements SessionManager and records what it was asked.
type fakeSessions struct {
	created   *session.Data
	createErr error
	destroyed bool
}

func (f *fakeSessions) Create(_ context.Context, w http.ResponseWriter, data *session.Data) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	f.created = data
	http.SetCookie(w, &http.Cookie{Name: session.CookieName, Value: "signed"})
	return "sid", nil
}

func (f *fakeSessions) Destroy(context.Context, http.ResponseWriter, *http.Request) error {
	f.destroyed = true
	return nil
}

// jsonRequest builds a request with a JSON body.
func jsonRequest(method, target, body string) *http.Request {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// withURLParam adds a chi URL parameter to a request.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// withSession puts session data into the request context the way
// middleware.LoadSession does.
func withSession(r *http.Request, data *session.Data) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), middleware.SessionKey, data))
}

// decodeBody decodes the recorder's JSON body into a map.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return body
}

// assertError checks the status and the "error" message of a response.
func assertError(t *testing.T, rec *httptest.ResponseRecorder, status int, msg string) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("status: got %d, want %d (body %s)", rec.Code, status, rec.Body.String())
	}
	if got := decodeBody(t, rec)["error"]; got != msg {
		t.Errorf("error: got %q, want %q", got, msg)
	}
}
