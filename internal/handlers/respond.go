// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the JSON HTTP handlers of the Directorio admin
// API. Handlers are grouped by resource and receive their dependencies
// through the handler struct.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"directorio/internal/store"
)

// maxBodySize caps JSON request bodies. Articles carry their whole body
// text, so this is generous.
const maxBodySize = 4 << 20

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

type messageBody struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Warn("write json response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

func writeMessage(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusOK, messageBody{Message: msg})
}

// decodeJSON reads the request body into dst. Unknown fields are ignored
// so that clients may echo back read-only attributes such as order.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return false
		}
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return false
	}
	return true
}

// writeStoreError maps a store error to its HTTP status. notFound is the
// message used for store.ErrNotFound. Unclassified errors are logged and
// answered with a generic 500.
func writeStoreError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	var verr *store.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: verr.Message, Field: verr.Field})
	case errors.Is(err, store.ErrUnknownCategory):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: "Unknown category", Field: "categoryName"})
	case errors.Is(err, store.ErrUnknownUser):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: "Unknown user", Field: "userId"})
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, notFound)
	case errors.Is(err, store.ErrDuplicateSlug):
		writeJSON(w, http.StatusConflict, errorBody{Error: "An article with this title already exists", Field: "title"})
	default:
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
	}
}
