package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jkaindl/fahrerportal/backend/internal/middleware"
	"github.com/jkaindl/fahrerportal/backend/internal/storage"
)

const (
	uploadURLTTL   = 15 * time.Minute
	downloadURLTTL = 10 * time.Minute
)

// storageUnavailable answers for both endpoints when no object store is
// configured.
func (s *Server) storageUnavailable(w http.ResponseWriter) {
	writeJSON(w, http.StatusServiceUnavailable, errorResponse{
		Error: errorDetail{Code: "storage_unavailable", Message: "object storage is not configured"},
	})
}

// CreateUpload handles POST /my/uploads (driver). It hands out a fresh
// object key plus a presigned PUT URL; the client uploads directly to the
// store and references the key in its next submission.
func (s *Server) CreateUpload(w http.ResponseWriter, r *http.Request) {
	if s.files == nil {
		s.storageUnavailable(w)
		return
	}
	identity, _ := middleware.IdentityFromContext(r.Context())

	var req struct {
		Filename string `json:"filename"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	key := storage.NewObjectKey(identity.UserID, req.Filename)
	url, err := s.files.PresignedPutURL(r.Context(), key, uploadURLTTL)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"key": key, "url": url})
}

// GetFileURL handles GET /files/* (admin). The wildcard is the object key.
func (s *Server) GetFileURL(w http.ResponseWriter, r *http.Request) {
	if s.files == nil {
		s.storageUnavailable(w)
		return
	}

	key := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	url, err := s.files.PresignedGetURL(r.Context(), key, downloadURLTTL)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"url": url})
}
