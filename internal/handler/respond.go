package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/jkaindl/fahrerportal/backend/internal/domain"
)

// pagination echoes the effective paging values plus the total row count.
type pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

// pagedResponse is the envelope for paginated list endpoints.
type pagedResponse struct {
	Data       any        `json:"data"`
	Pagination pagination `json:"pagination"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeJSON parses the request body into dst. Unknown fields are rejected
// so typos in payloads surface as errors instead of silently dropped data.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON body: %v", domain.ErrValidation, err)
	}
	return nil
}

// pathUUID parses a UUID URL parameter.
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s is not a valid UUID", domain.ErrValidation, name)
	}
	return id, nil
}

// parseUUIDField parses a UUID payload field.
func parseUUIDField(value, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s is not a valid UUID", domain.ErrValidation, name)
	}
	return id, nil
}

// queryPagination builds PaginationParams from optional ?page= and ?limit=.
func queryPagination(r *http.Request) domain.PaginationParams {
	var page, limit *int
	if v := r.URL.Query().Get("page"); v != "" {
		var n int
		if _, err := fmt.Sscanf(v, "%d", &n); err == nil {
			page = &n
		}
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		var n int
		if _, err := fmt.Sscanf(v, "%d", &n); err == nil {
			limit = &n
		}
	}
	return domain.NewPaginationParams(page, limit)
}
