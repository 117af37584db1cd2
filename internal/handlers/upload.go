package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"directorio/internal/storage"
)

// maxUploadSize is the largest accepted image (10 MB).
const maxUploadSize = 10 << 20

// Uploader stores an object and returns its public URL. *storage.Client
// satisfies it.
type Uploader interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	FileURL(key string) string
}

// Uploads serves POST /uploads.
type Uploads struct {
	storage Uploader
	now     func() time.Time
}

// NewUploads creates the upload handler. A nil uploader means object
// storage is not configured and every upload answers 503.
func NewUploads(u Uploader) *Uploads {
	return &Uploads{storage: u, now: time.Now}
}

// Upload stores a multipart "file" image and returns {"url": ...} for use
// in article and listing image lists.
func (h *Uploads) Upload(w http.ResponseWriter, r *http.Request) {
	if h.storage == nil {
		writeError(w, http.StatusServiceUnavailable, "Object storage is not configured")
		return
	}

	// Leave room for the multipart envelope around the file.
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+1<<20)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "File too large. Maximum size is 10 MB")
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "No file provided", Field: "file"})
		return
	}
	defer file.Close()

	if header.Size > maxUploadSize {
		writeError(w, http.StatusRequestEntityTooLarge, "File too large. Maximum size is 10 MB")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		slog.Error("read upload failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	// The declared type is not trusted; sniff the content instead.
	contentType := http.DetectContentType(data)
	ext, ok := storage.ImageExtension(contentType)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody{
			Error: fmt.Sprintf("File type %q is not allowed", contentType),
			Field: "file",
		})
		return
	}

	key := storage.UploadKey(h.now(), ext)
	if err := h.storage.Upload(r.Context(), key, contentType, bytes.NewReader(data), int64(len(data))); err != nil {
		slog.Error("s3 upload failed", "error", err, "key", key)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	slog.Info("image uploaded", "key", key, "size", len(data), "type", contentType)
	writeJSON(w, http.StatusCreated, map[string]string{"url": h.storage.FileURL(key)})
}
