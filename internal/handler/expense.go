package handler

import (
	"net/http"
	"time"

	"github.com/jkaindl/fahrerportal/backend/internal/domain"
	"github.com/jkaindl/fahrerportal/backend/internal/middleware"
)

// submitExpenseRequest is the driver payload for POST /my/expenses.
type submitExpenseRequest struct {
	TourNumber  string                 `json:"tour_number"`
	Plate       string                 `json:"plate"`
	Date        time.Time              `json:"date"`
	RouteFrom   string                 `json:"route_from"`
	RouteTo     string                 `json:"route_to"`
	Category    domain.ExpenseCategory `json:"category"`
	AmountCents int64                  `json:"amount_cents"`
	ProofKey    string                 `json:"proof_key"`
}

// SubmitExpense handles POST /my/expenses (driver).
func (s *Server) SubmitExpense(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	var req submitExpenseRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	created, err := s.expenses.Submit(r.Context(), identity.UserID, domain.ExpenseRecord{
		TourNumber:  req.TourNumber,
		Plate:       req.Plate,
		Date:        req.Date,
		RouteFrom:   req.RouteFrom,
		RouteTo:     req.RouteTo,
		Category:    req.Category,
		AmountCents: req.AmountCents,
		ProofKey:    req.ProofKey,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// ListMyExpenses handles GET /my/expenses (driver).
// Supports ?page= and ?limit= (defaults: page=1, limit=20, max=100).
func (s *Server) ListMyExpenses(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())
	params := queryPagination(r)

	records, total, err := s.expenses.ListForDriver(r.Context(), identity.UserID, params)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pagedResponse{
		Data:       records,
		Pagination: pagination{Page: params.Page, Limit: params.Limit, Total: total},
	})
}

// GetMyExpense handles GET /my/expenses/{recordID} (driver).
func (s *Server) GetMyExpense(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	recordID, err := pathUUID(r, "recordID")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	rec, err := s.expenses.GetForDriver(r.Context(), identity.UserID, recordID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// ListPendingExpenses handles GET /expenses/pending (admin).
func (s *Server) ListPendingExpenses(w http.ResponseWriter, r *http.Request) {
	records, err := s.expenses.ListPending(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": records})
}

// SetExpenseStatus handles PUT /expenses/{recordID}/status (admin).
func (s *Server) SetExpenseStatus(w http.ResponseWriter, r *http.Request) {
	recordID, err := pathUUID(r, "recordID")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var req struct {
		Status domain.ExpenseStatus `json:"status"`
		Force  bool                 `json:"force"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	rec, err := s.expenses.SetStatus(r.Context(), recordID, req.Status, req.Force)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}
