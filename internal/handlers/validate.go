package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// idPayload is the body of DELETE requests that carry the id in JSON.
type idPayload struct {
	ID string `json:"id"`
}

// resolveID picks the target id from the {id} path parameter or, when the
// route has none, from the id field of the body. It writes a 400 and
// reports false when neither yields a valid UUID.
func resolveID(w http.ResponseWriter, r *http.Request, bodyID string) (uuid.UUID, bool) {
	raw := chi.URLParam(r, "id")
	if raw == "" {
		raw = bodyID
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "id is required", Field: "id"})
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Invalid id", Field: "id"})
		return uuid.Nil, false
	}
	return id, true
}

// deleteTarget resolves the id of a DELETE request. Path routes need no
// body; body routes read {"id": "..."}.
func deleteTarget(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	if chi.URLParam(r, "id") != "" {
		return resolveID(w, r, "")
	}
	var body idPayload
	if !decodeJSON(w, r, &body) {
		return uuid.Nil, false
	}
	return resolveID(w, r, body.ID)
}
