package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/jkaindl/fahrerportal/backend/internal/domain"
)

// errorDetail is the machine-readable error payload.
type errorDetail struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Missing []string `json:"missing,omitempty"` // wizard step validation only
}

// errorResponse wraps every non-2xx JSON body.
type errorResponse struct {
	Error errorDetail `json:"error"`
}

// respondError maps domain sentinel errors onto HTTP statuses. Anything
// unmapped is an internal error: logged with the wrapped chain, reported to
// the client without detail.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error: errorDetail{Code: "validation_error", Message: unwrapMessage(err)},
		})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{
			Error: errorDetail{Code: "not_found", Message: "resource not found"},
		})
	case errors.Is(err, domain.ErrForbidden):
		writeJSON(w, http.StatusForbidden, errorResponse{
			Error: errorDetail{Code: "forbidden", Message: "not allowed"},
		})
	case errors.Is(err, domain.ErrConflict):
		writeJSON(w, http.StatusConflict, errorResponse{
			Error: errorDetail{Code: "conflict", Message: "resource state does not allow this operation"},
		})
	default:
		s.logger.ErrorContext(r.Context(), "request failed",
			"method", r.Method, "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error: errorDetail{Code: "internal", Message: "internal server error"},
		})
	}
}

// unwrapMessage extracts the human-readable part from a wrapped validation
// error, e.g. "service.TourService.Create: validation error: plate is
// required" → "plate is required".
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	const marker = "validation error: "
	if i := strings.LastIndex(msg, marker); i >= 0 {
		return msg[i+len(marker):]
	}
	return msg
}
