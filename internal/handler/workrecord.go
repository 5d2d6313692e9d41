package handler

import (
	"net/http"
	"time"

	"github.com/jkaindl/fahrerportal/backend/internal/domain"
	"github.com/jkaindl/fahrerportal/backend/internal/middleware"
)

// submitWorkRecordRequest is the driver payload for POST /my/work-records.
type submitWorkRecordRequest struct {
	TourNumber     string               `json:"tour_number"`
	Date           time.Time            `json:"date"`
	DrivenKm       float64              `json:"driven_km"`
	Waiting        domain.WaitingBucket `json:"waiting"`
	ProofKey       string               `json:"proof_key"`
	IstRuecklaufer bool                 `json:"ist_ruecklaufer"`
}

// SubmitWorkRecord handles POST /my/work-records (driver).
func (s *Server) SubmitWorkRecord(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	var req submitWorkRecordRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	created, err := s.records.Submit(r.Context(), identity.UserID, domain.WorkRecord{
		TourNumber:     req.TourNumber,
		Date:           req.Date,
		DrivenKm:       req.DrivenKm,
		Waiting:        req.Waiting,
		ProofKey:       req.ProofKey,
		IstRuecklaufer: req.IstRuecklaufer,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// ListMyWorkRecords handles GET /my/work-records (driver).
// Supports ?page= and ?limit= (defaults: page=1, limit=20, max=100).
func (s *Server) ListMyWorkRecords(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())
	params := queryPagination(r)

	records, total, err := s.records.ListForDriver(r.Context(), identity.UserID, params)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pagedResponse{
		Data:       records,
		Pagination: pagination{Page: params.Page, Limit: params.Limit, Total: total},
	})
}

// GetMyWorkRecord handles GET /my/work-records/{recordID} (driver).
func (s *Server) GetMyWorkRecord(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	recordID, err := pathUUID(r, "recordID")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	rec, err := s.records.GetForDriver(r.Context(), identity.UserID, recordID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// ListPendingWorkRecords handles GET /work-records/pending (admin).
func (s *Server) ListPendingWorkRecords(w http.ResponseWriter, r *http.Request) {
	records, err := s.records.ListPending(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": records})
}

// SetWorkRecordStatus handles PUT /work-records/{recordID}/status (admin).
// force bypasses the workflow progression for corrections of billed records.
func (s *Server) SetWorkRecordStatus(w http.ResponseWriter, r *http.Request) {
	recordID, err := pathUUID(r, "recordID")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var req struct {
		Status domain.WorkStatus `json:"status"`
		Force  bool              `json:"force"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	rec, err := s.records.SetStatus(r.Context(), recordID, req.Status, req.Force)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}
