// Package session provides Valkey-backed admin sessions. The browser holds
// a signed JWT in an HttpOnly cookie; the token names a session record in
// Valkey, so deleting the record revokes the token before it expires.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// CookieName is the name of the session cookie sent to the browser.
	CookieName = "token"

	// DefaultTTL is how long a session lives in Valkey and how long the
	// token stays valid.
	DefaultTTL = 24 * time.Hour

	// keyPrefix namespaces session keys in Valkey to avoid collisions.
	keyPrefix = "session:"

	// idLength is the byte length of the random session ID (32 bytes = 64 hex chars).
	idLength = 32
)

// ErrNoSecret is returned by Create when no signing secret is configured.
var ErrNoSecret = errors.New("session: signing secret not configured")

// Data holds the session payload stored in Valkey.
type Data struct {
	AdminID   uuid.UUID `json:"admin_id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// claims is the token body: sub is the admin id and sid the Valkey record.
type claims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// Store manages session lifecycle in Valkey.
type Store struct {
	client *redis.Client
	secret []byte
	secure bool
	ttl    time.Duration
}

// NewStore creates a session store backed by the given Valkey client.
// Tokens are signed with secret (HS256). When secure is true the cookie is
// only sent over HTTPS.
func NewStore(client *redis.Client, secret string, secure bool) *Store {
	return &Store{
		client: client,
		secret: []byte(secret),
		secure: secure,
		ttl:    DefaultTTL,
	}
}

// Create generates a new session, stores it in Valkey, and sets the token
// cookie on the response. Returns the session ID.
func (s *Store) Create(ctx context.Context, w http.ResponseWriter, data *Data) (string, error) {
	if len(s.secret) == 0 {
		return "", ErrNoSecret
	}

	id, err := generateID()
	if err != nil {
		return "", fmt.Errorf("session create: %w", err)
	}

	data.CreatedAt = time.Now()

	token, err := s.sign(id, data)
	if err != nil {
		return "", fmt.Errorf("session sign: %w", err)
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("session marshal: %w", err)
	}

	if err := s.client.Set(ctx, keyPrefix+id, payload, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("session store: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.ttl.Seconds()),
	})

	return id, nil
}

func (s *Store) sign(id string, data *Data) (string, error) {
	c := claims{
		SessionID: id,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   data.AdminID.String(),
			IssuedAt:  jwt.NewNumericDate(data.CreatedAt),
			ExpiresAt: jwt.NewNumericDate(data.CreatedAt.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
}

// sessionID validates the request's token and returns the session ID it
// names. The second result is false for a missing, malformed, expired or
// wrongly signed token.
func (s *Store) sessionID(r *http.Request) (string, *claims, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" || len(s.secret) == 0 {
		return "", nil, false
	}

	var c claims
	_, err = jwt.ParseWithClaims(cookie.Value, &c, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		slog.Debug("session token rejected", "error", err)
		return "", nil, false
	}
	if c.SessionID == "" {
		return "", nil, false
	}
	return c.SessionID, &c, true
}

// Get retrieves session data from Valkey using the token in the request
// cookie. Returns nil if no valid session exists.
func (s *Store) Get(ctx context.Context, r *http.Request) (*Data, error) {
	id, c, ok := s.sessionID(r)
	if !ok {
		return nil, nil // No usable token = no session (not an error)
	}

	payload, err := s.client.Get(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil // Session expired, revoked or never existed
	}
	if err != nil {
		return nil, fmt.Errorf("session get: %w", err)
	}

	var data Data
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, fmt.Errorf("session unmarshal: %w", err)
	}

	// A token whose subject does not match the record is not honoured.
	if c.Subject != data.AdminID.String() {
		return nil, nil
	}

	return &data, nil
}

// Destroy removes the session from Valkey and clears the cookie.
func (s *Store) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	// Expire the cookie even when the token no longer validates.
	defer http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})

	id, _, ok := s.sessionID(r)
	if !ok {
		return nil // Nothing to destroy
	}

	if err := s.client.Del(ctx, keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("session destroy: %w", err)
	}
	return nil
}

// generateID creates a cryptographically random session identifier.
func generateID() (string, error) {
	b := make([]byte, idLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
