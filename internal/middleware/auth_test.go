package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"directorio/internal/session"
)

// newTestSession creates a session.Data value suitable for testing.
func newTestSession() *session.Data {
	return &session.Data{
		AdminID:  uuid.New(),
		Username: "admin",
	}
}

// ctxWithSession returns a context carrying the given session data using
// the same context key the middleware uses. This allows tests to simulate
// the state after LoadSession has run without needing a real Valkey store.
func ctxWithSession(ctx context.Context, data *session.Data) context.Context {
	return context.WithValue(ctx, SessionKey, data)
}

// okHandler is a simple handler that records whether it was invoked.
func okHandler() (http.Handler, *bool) {
	var called bool
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})
	return h, &called
}

// fakeGetter is a SessionGetter returning fixed values.
type fakeGetter struct {
	data *session.Data
	err  error
}

func (f fakeGetter) Get(context.Context, *http.Request) (*session.Data, error) {
	return f.data, f.err
}

// ---------- SessionFromCtx ----------

func TestSessionFromCtx(t *testing.T) {
	t.Run("returns session when present", func(t *testing.T) {
		sess := newTestSession()
		ctx := ctxWithSession(context.Background(), sess)

		got := SessionFromCtx(ctx)
		if got == nil {
			t.Fatal("expected non-nil session, got nil")
		}
		if got.AdminID != sess.AdminID {
			t.Errorf("AdminID: got %s, want %s", got.AdminID, sess.AdminID)
		}
		if got.Username != sess.Username {
			t.Errorf("Username: got %q, want %q", got.Username, sess.Username)
		}
	})

	t.Run("returns nil when not present", func(t *testing.T) {
		got := SessionFromCtx(context.Background())
		if got != nil {
			t.Errorf("expected nil session, got %+v", got)
		}
	})

	t.Run("returns nil for wrong type in context", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), SessionKey, "not-a-session")
		got := SessionFromCtx(ctx)
		if got != nil {
			t.Errorf("expected nil for wrong type, got %+v", got)
		}
	})
}

// ---------- LoadSession ----------

func TestLoadSession(t *testing.T) {
	tests := []struct {
		name     string
		getter   fakeGetter
		wantSess bool
	}{
		{"session found", fakeGetter{data: newTestSession()}, true},
		{"no session", fakeGetter{}, false},
		{"store error treated as anonymous", fakeGetter{err: errors.New("valkey down")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got *session.Data
			var called bool
			handler := LoadSession(tt.getter)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				got = SessionFromCtx(r.Context())
			}))

			handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/articles", nil))

			if !called {
				t.Fatal("next handler should always be called")
			}
			if (got != nil) != tt.wantSess {
				t.Errorf("session in context: got %v, want present=%v", got, tt.wantSess)
			}
		})
	}
}

// ---------- RequireAuth ----------

func TestRequireAuth(t *testing.T) {
	t.Run("rejects without session", func(t *testing.T) {
		next, called := okHandler()
		handler := RequireAuth(next)

		req := httptest.NewRequest(http.MethodPost, "/articles", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if *called {
			t.Error("handler must not run without a session")
		}
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("status: got %d, want 401", rr.Code)
		}
		if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
			t.Errorf("Content-Type: got %q, want application/json", ct)
		}
		if !strings.Contains(rr.Body.String(), `"error":"Unauthorized"`) {
			t.Errorf("body: got %q", rr.Body.String())
		}
	})

	t.Run("passes with session", func(t *testing.T) {
		next, called := okHandler()
		handler := RequireAuth(next)

		req := httptest.NewRequest(http.MethodPost, "/articles", nil)
		req = req.WithContext(ctxWithSession(req.Context(), newTestSession()))
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if !*called {
			t.Error("handler should run with a session")
		}
		if rr.Code != http.StatusOK {
			t.Errorf("status: got %d, want 200", rr.Code)
		}
	})
}

// TestLoadSessionThenRequireAuth chains both middlewares the way the router
// does.
func TestLoadSessionThenRequireAuth(t *testing.T) {
	tests := []struct {
		name       string
		getter     fakeGetter
		wantStatus int
	}{
		{"authenticated", fakeGetter{data: newTestSession()}, http.StatusOK},
		{"anonymous", fakeGetter{}, http.StatusUnauthorized},
		{"store error", fakeGetter{err: errors.New("boom")}, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, _ := okHandler()
			handler := LoadSession(tt.getter)(RequireAuth(next))

			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/articles/x", nil))

			if rr.Code != tt.wantStatus {
				t.Errorf("status: got %d, want %d", rr.Code, tt.wantStatus)
			}
		})
	}
}
