// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"encoding/base64"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"
	"golang.org/x/crypto/bcrypt"

	"directorio/internal/middleware"
	"directorio/internal/models"
	"directorio/internal/session"
	"directorio/internal/store"
)

// totpIssuer is the issuer shown in authenticator apps.
const totpIssuer = "Directorio.pet"

const invalidCredentials = "Invalid credentials"

// AdminStore is the part of *store.AdminStore the session handlers use.
type AdminStore interface {
	FindByUsername(ctx context.Context, username string) (*models.Admin, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Admin, error)
	SetTOTPSecret(ctx context.Context, adminID uuid.UUID, secret string) error
	EnableTOTP(ctx context.Context, adminID uuid.UUID) error
	CheckPassword(admin *models.Admin, password string) bool
}

// SessionManager creates and destroys admin sessions. *session.Store
// satisfies it.
type SessionManager interface {
	Create(ctx context.Context, w http.ResponseWriter, data *session.Data) (string, error)
	Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error
}

// Session serves /session: login, logout, the current admin and TOTP
// enrolment.
type Session struct {
	admins   AdminStore
	sessions SessionManager
}

func NewSession(admins AdminStore, sessions SessionManager) *Session {
	return &Session{admins: admins, sessions: sessions}
}

type loginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Code     string `json:"code"`
}

type adminView struct {
	ID          uuid.UUID `json:"id"`
	Username    string    `json:"username"`
	TOTPEnabled bool      `json:"totpEnabled"`
}

func viewOf(a *models.Admin) adminView {
	return adminView{ID: a.ID, Username: a.Username, TOTPEnabled: a.TOTPEnabled}
}

// dummyHash is compared against when the username is unknown so that the
// response time does not reveal which part of the credentials was wrong.
var dummyHash = sync.OnceValue(func() []byte {
	h, _ := bcrypt.GenerateFromPassword([]byte("directorio-dummy-password"), bcrypt.DefaultCost)
	return h
})

// Login checks username, password and, once enrolled, the TOTP code. Every
// credential failure gets the same 400 response.
func (h *Session) Login(w http.ResponseWriter, r *http.Request) {
	var in loginPayload
	if !decodeJSON(w, r, &in) {
		return
	}
	in.Username = strings.TrimSpace(in.Username)
	if in.Username == "" || in.Password == "" {
		writeError(w, http.StatusBadRequest, invalidCredentials)
		return
	}

	admin, err := h.admins.FindByUsername(r.Context(), in.Username)
	if errors.Is(err, store.ErrNotFound) {
		bcrypt.CompareHashAndPassword(dummyHash(), []byte(in.Password))
		slog.Info("login rejected", "reason", "unknown username")
		writeError(w, http.StatusBadRequest, invalidCredentials)
		return
	}
	if err != nil {
		slog.Error("login lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	if !h.admins.CheckPassword(admin, in.Password) {
		slog.Info("login rejected", "reason", "wrong password", "admin_id", admin.ID)
		writeError(w, http.StatusBadRequest, invalidCredentials)
		return
	}

	if admin.RequiresTOTP() && !totp.Validate(strings.TrimSpace(in.Code), *admin.TOTPSecret) {
		slog.Info("login rejected", "reason", "bad totp code", "admin_id", admin.ID)
		writeError(w, http.StatusBadRequest, invalidCredentials)
		return
	}

	_, err = h.sessions.Create(r.Context(), w, &session.Data{
		AdminID:  admin.ID,
		Username: admin.Username,
	})
	if errors.Is(err, session.ErrNoSecret) {
		slog.Error("session create failed: JWT_SECRET is not set")
		writeError(w, http.StatusInternalServerError, "Server misconfiguration")
		return
	}
	if err != nil {
		slog.Error("session create failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	slog.Info("admin logged in", "admin_id", admin.ID)
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Login successful",
		"admin":   viewOf(admin),
	})
}

// Current returns the logged-in admin and the CSRF token the frontend must
// echo on mutations.
func (h *Session) Current(w http.ResponseWriter, r *http.Request) {
	admin, ok := h.currentAdmin(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"admin":     viewOf(admin),
		"csrfToken": middleware.CSRFTokenFromCtx(r.Context()),
	})
}

// Logout revokes the session record and expires the cookie.
func (h *Session) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Destroy(r.Context(), w, r); err != nil {
		slog.Error("session destroy failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	writeMessage(w, "Logged out")
}

// TwoFASetup issues a new TOTP secret for the current admin. Login keeps
// working without a code until TwoFAEnable confirms the secret.
func (h *Session) TwoFASetup(w http.ResponseWriter, r *http.Request) {
	admin, ok := h.currentAdmin(w, r)
	if !ok {
		return
	}
	if admin.TOTPEnabled {
		writeError(w, http.StatusBadRequest, "Two-factor authentication is already enabled")
		return
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: admin.Username,
	})
	if err != nil {
		slog.Error("totp generate failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	if err := h.admins.SetTOTPSecret(r.Context(), admin.ID, key.Secret()); err != nil {
		slog.Error("save totp secret failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	qrPNG, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		slog.Error("qr code generation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"secret":     key.Secret(),
		"otpauthUrl": key.URL(),
		"qrPng":      base64.StdEncoding.EncodeToString(qrPNG),
	})
}

// TwoFAEnable verifies a code against the pending secret and turns TOTP on.
func (h *Session) TwoFAEnable(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Code string `json:"code"`
	}
	if !decodeJSON(w, r, &in) {
		return
	}

	admin, ok := h.currentAdmin(w, r)
	if !ok {
		return
	}
	if admin.TOTPSecret == nil {
		writeError(w, http.StatusBadRequest, "Run two-factor setup first")
		return
	}
	if !totp.Validate(strings.TrimSpace(in.Code), *admin.TOTPSecret) {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Invalid code", Field: "code"})
		return
	}

	if !admin.TOTPEnabled {
		if err := h.admins.EnableTOTP(r.Context(), admin.ID); err != nil {
			slog.Error("enable totp failed", "error", err)
			writeError(w, http.StatusInternalServerError, "Internal Server Error")
			return
		}
	}

	slog.Info("totp enabled", "admin_id", admin.ID)
	writeMessage(w, "Two-factor authentication enabled")
}

// currentAdmin loads the admin named by the request session. A session
// whose admin has been removed is treated as logged out.
func (h *Session) currentAdmin(w http.ResponseWriter, r *http.Request) (*models.Admin, bool) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return nil, false
	}

	admin, err := h.admins.FindByID(r.Context(), sess.AdminID)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return nil, false
	}
	if err != nil {
		slog.Error("admin lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return nil, false
	}
	return admin, true
}
