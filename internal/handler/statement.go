package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jkaindl/fahrerportal/backend/internal/domain"
	"github.com/jkaindl/fahrerportal/backend/internal/middleware"
)

// parseMonth parses a "2006-01" month string.
func parseMonth(value string) (time.Time, error) {
	month, err := time.Parse("2006-01", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: month must be formatted YYYY-MM", domain.ErrValidation)
	}
	return month, nil
}

// GetMyStatement handles GET /my/statement?month=2026-03 (driver).
func (s *Server) GetMyStatement(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	month, err := parseMonth(r.URL.Query().Get("month"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	statement, err := s.statements.Monthly(r.Context(), identity.UserID, month)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, statement)
}

// GetDriverStatement handles GET /drivers/{driverID}/statement?month=2026-03 (admin).
func (s *Server) GetDriverStatement(w http.ResponseWriter, r *http.Request) {
	driverID, err := pathUUID(r, "driverID")
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	month, err := parseMonth(r.URL.Query().Get("month"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	statement, err := s.statements.Monthly(r.Context(), driverID, month)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, statement)
}

// PutSurplusOverride handles PUT /drivers/{driverID}/surplus/{month} (admin).
func (s *Server) PutSurplusOverride(w http.ResponseWriter, r *http.Request) {
	driverID, err := pathUUID(r, "driverID")
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	month, err := parseMonth(chi.URLParam(r, "month"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var req struct {
		AmountCents int64  `json:"amount_cents"`
		Note        string `json:"note"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	stored, err := s.statements.SetSurplusOverride(r.Context(), domain.MonthlySurplus{
		DriverID:    driverID,
		Month:       month,
		AmountCents: req.AmountCents,
		Note:        req.Note,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stored)
}

// DeleteSurplusOverride handles DELETE /drivers/{driverID}/surplus/{month} (admin).
func (s *Server) DeleteSurplusOverride(w http.ResponseWriter, r *http.Request) {
	driverID, err := pathUUID(r, "driverID")
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	month, err := parseMonth(chi.URLParam(r, "month"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if err := s.statements.ClearSurplusOverride(r.Context(), driverID, month); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
