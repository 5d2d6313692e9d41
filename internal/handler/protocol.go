package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jkaindl/fahrerportal/backend/internal/domain"
	"github.com/jkaindl/fahrerportal/backend/internal/middleware"
	"github.com/jkaindl/fahrerportal/backend/internal/wizard"
)

// sessionResponse is the wizard state returned to the driver app: the
// session itself plus the current step's validation result, so the client
// can render field-level errors without a second request.
type sessionResponse struct {
	Session    *wizard.Session `json:"session"`
	Validation wizard.Result   `json:"validation"`
}

func newSessionResponse(session *wizard.Session) sessionResponse {
	return sessionResponse{Session: session, Validation: session.Validate()}
}

// StartWizardSession handles POST /tours/{tourID}/protocol/{phase}/session (driver).
func (s *Server) StartWizardSession(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	tourID, err := pathUUID(r, "tourID")
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	phase := domain.ProtocolPhase(chi.URLParam(r, "phase"))

	session, err := s.protocols.Start(r.Context(), tourID, identity.UserID, phase)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newSessionResponse(session))
}

// GetWizardSession handles GET /wizard/{sessionID} (driver).
func (s *Server) GetWizardSession(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	sessionID, err := pathUUID(r, "sessionID")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	session, err := s.protocols.Get(r.Context(), sessionID, identity.UserID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newSessionResponse(session))
}

// ApplyWizardInput handles PATCH /wizard/{sessionID} (driver).
// The body is a partial form update; only the supplied fields change.
func (s *Server) ApplyWizardInput(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	sessionID, err := pathUUID(r, "sessionID")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var in wizard.StepInput
	if err := decodeJSON(r, &in); err != nil {
		s.respondError(w, r, err)
		return
	}

	session, err := s.protocols.Apply(r.Context(), sessionID, identity.UserID, in)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newSessionResponse(session))
}

// WizardNext handles POST /wizard/{sessionID}/next (driver).
// A blocked step answers 422 with the missing field names.
func (s *Server) WizardNext(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	sessionID, err := pathUUID(r, "sessionID")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	session, res, err := s.protocols.Next(r.Context(), sessionID, identity.UserID)
	if err != nil {
		if errors.Is(err, wizard.ErrStepBlocked) {
			writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
				Error: errorDetail{Code: "step_blocked", Message: "current step is not complete", Missing: res.Missing},
			})
			return
		}
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newSessionResponse(session))
}

// WizardPrev handles POST /wizard/{sessionID}/prev (driver).
// At the first step nothing changes; exited=true tells the client to close
// the wizard (the session stays stored until it expires).
func (s *Server) WizardPrev(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	sessionID, err := pathUUID(r, "sessionID")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	session, moved, err := s.protocols.Prev(r.Context(), sessionID, identity.UserID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		sessionResponse
		Exited bool `json:"exited"`
	}{newSessionResponse(session), !moved})
}

// WizardSubmit handles POST /wizard/{sessionID}/submit (driver).
func (s *Server) WizardSubmit(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	sessionID, err := pathUUID(r, "sessionID")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	stored, err := s.protocols.Submit(r.Context(), sessionID, identity.UserID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, stored)
}

// GetProtocol handles GET /tours/{tourID}/protocol/{phase} (admin).
func (s *Server) GetProtocol(w http.ResponseWriter, r *http.Request) {
	tourID, err := pathUUID(r, "tourID")
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	phase := domain.ProtocolPhase(chi.URLParam(r, "phase"))

	p, err := s.protocols.GetProtocol(r.Context(), tourID, phase)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
