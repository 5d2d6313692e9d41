package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/jkaindl/fahrerportal/backend/internal/domain"
	"github.com/jkaindl/fahrerportal/backend/internal/repo"
	"github.com/jkaindl/fahrerportal/backend/internal/wizard"
)

// SessionStore persists in-progress wizard sessions between requests.
// Implemented by wizard.SessionStore; abandoned sessions expire on their own.
type SessionStore interface {
	Save(ctx context.Context, s *wizard.Session) error
	Get(ctx context.Context, id uuid.UUID) (*wizard.Session, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProtocolService drives the handover-protocol wizard: starting a session
// for a tour phase, navigating it, and turning a completed session into a
// persisted protocol.
type ProtocolService struct {
	tours     repo.TourRepo
	protocols repo.ProtocolRepo
	sessions  SessionStore
	notifier  Notifier // nil disables notifications
	logger    *slog.Logger
}

// NewProtocolService constructs a ProtocolService. notifier may be nil.
func NewProtocolService(tours repo.TourRepo, protocols repo.ProtocolRepo, sessions SessionStore, notifier Notifier, logger *slog.Logger) *ProtocolService {
	return &ProtocolService{tours: tours, protocols: protocols, sessions: sessions, notifier: notifier, logger: logger}
}

// Start opens a new wizard session for the given tour and phase.
//
// The pickup wizard requires the tour to be in pickup_open. The dropoff
// wizard requires in_transit (and advances the tour to dropoff_open) or
// dropoff_open (an earlier dropoff session was abandoned and expired); it
// also loads the pickup protocol's damages as the read-only baseline.
// Returns domain.ErrForbidden when the tour is assigned to another driver
// and domain.ErrConflict when the tour status does not admit the phase.
func (s *ProtocolService) Start(ctx context.Context, tourID, driverID uuid.UUID, phase domain.ProtocolPhase) (*wizard.Session, error) {
	if !phase.Valid() {
		return nil, fmt.Errorf("%w: unknown phase %q", domain.ErrValidation, phase)
	}

	tour, err := s.tours.GetByID(ctx, tourID)
	if err != nil {
		return nil, fmt.Errorf("service.ProtocolService.Start: %w", err)
	}
	if tour.DriverID == nil || *tour.DriverID != driverID {
		return nil, fmt.Errorf("service.ProtocolService.Start: %w", domain.ErrForbidden)
	}

	var priorDamages []domain.ProtocolDamage
	switch phase {
	case domain.PhasePickup:
		if tour.Status != domain.TourPickupOpen {
			return nil, fmt.Errorf("service.ProtocolService.Start: tour is %s: %w", tour.Status, domain.ErrConflict)
		}
	case domain.PhaseDropoff:
		switch tour.Status {
		case domain.TourInTransit:
			if err := s.tours.UpdateStatus(ctx, tourID, domain.TourInTransit, domain.TourDropoffOpen); err != nil {
				return nil, fmt.Errorf("service.ProtocolService.Start: %w", err)
			}
		case domain.TourDropoffOpen:
			// resuming after an expired session, the status is already open
		default:
			return nil, fmt.Errorf("service.ProtocolService.Start: tour is %s: %w", tour.Status, domain.ErrConflict)
		}

		pickup, err := s.protocols.GetByTourAndPhase(ctx, tourID, domain.PhasePickup)
		if err != nil {
			return nil, fmt.Errorf("service.ProtocolService.Start: pickup protocol: %w", err)
		}
		priorDamages = pickup.Damages
	}

	session := wizard.NewSession(tour, driverID, phase, priorDamages)
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("service.ProtocolService.Start: %w", err)
	}
	return session, nil
}

// Get returns the driver's session state, e.g. after an app restart.
func (s *ProtocolService) Get(ctx context.Context, sessionID, driverID uuid.UUID) (*wizard.Session, error) {
	return s.ownedSession(ctx, sessionID, driverID, "Get")
}

// Apply merges a partial form update into the session and persists it.
// Updates are accepted on any step; validation happens on Next and Submit.
func (s *ProtocolService) Apply(ctx context.Context, sessionID, driverID uuid.UUID, in wizard.StepInput) (*wizard.Session, error) {
	session, err := s.ownedSession(ctx, sessionID, driverID, "Apply")
	if err != nil {
		return nil, err
	}
	session.Apply(in)
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("service.ProtocolService.Apply: %w", err)
	}
	return session, nil
}

// Next validates the current step and advances the session. On a blocked
// step the session is returned unchanged together with the validation
// result naming the missing fields.
func (s *ProtocolService) Next(ctx context.Context, sessionID, driverID uuid.UUID) (*wizard.Session, wizard.Result, error) {
	session, err := s.ownedSession(ctx, sessionID, driverID, "Next")
	if err != nil {
		return nil, wizard.Result{}, err
	}

	res, err := session.Next()
	if err != nil {
		return session, res, fmt.Errorf("service.ProtocolService.Next: %w", err)
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, wizard.Result{}, fmt.Errorf("service.ProtocolService.Next: %w", err)
	}
	return session, res, nil
}

// Prev steps the session back without validation. The returned bool is
// false when the session was already on the first step: the client should
// leave the wizard, and the session stays stored until it expires.
func (s *ProtocolService) Prev(ctx context.Context, sessionID, driverID uuid.UUID) (*wizard.Session, bool, error) {
	session, err := s.ownedSession(ctx, sessionID, driverID, "Prev")
	if err != nil {
		return nil, false, err
	}

	if !session.Prev() {
		return session, false, nil
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, false, fmt.Errorf("service.ProtocolService.Prev: %w", err)
	}
	return session, true, nil
}

// Submit turns a completed session into a persisted protocol and advances
// the tour status, all in one transaction. The session is deleted only
// after the transaction committed; on any failure it stays stored so the
// driver can retry without losing the entered data.
// Returns domain.ErrValidation when any step is still incomplete.
func (s *ProtocolService) Submit(ctx context.Context, sessionID, driverID uuid.UUID) (domain.TourProtocol, error) {
	session, err := s.ownedSession(ctx, sessionID, driverID, "Submit")
	if err != nil {
		return domain.TourProtocol{}, err
	}

	snapshot, err := session.Snapshot()
	if err != nil {
		if errors.Is(err, wizard.ErrNotSubmittable) {
			return domain.TourProtocol{}, fmt.Errorf("service.ProtocolService.Submit: %w: %w", domain.ErrValidation, err)
		}
		return domain.TourProtocol{}, fmt.Errorf("service.ProtocolService.Submit: %w", err)
	}

	from, to := domain.TourPickupOpen, domain.TourInTransit
	if session.Phase == domain.PhaseDropoff {
		from, to = domain.TourDropoffOpen, domain.TourCompleted
	}

	stored, err := s.protocols.Submit(ctx, snapshot, from, to)
	if err != nil {
		return domain.TourProtocol{}, fmt.Errorf("service.ProtocolService.Submit: %w", err)
	}

	if err := s.sessions.Delete(ctx, session.ID); err != nil {
		// The protocol is committed; the orphaned session expires on its own.
		s.logger.WarnContext(ctx, "wizard session cleanup failed",
			"session_id", session.ID, "error", err)
	}

	if s.notifier != nil {
		if err := s.notifier.ProtocolSubmitted(ctx, stored, len(stored.Damages)); err != nil {
			s.logger.WarnContext(ctx, "protocol notification failed",
				"protocol_id", stored.ID, "error", err)
		}
	}
	return stored, nil
}

// GetProtocol loads a persisted protocol for one tour phase.
func (s *ProtocolService) GetProtocol(ctx context.Context, tourID uuid.UUID, phase domain.ProtocolPhase) (domain.TourProtocol, error) {
	if !phase.Valid() {
		return domain.TourProtocol{}, fmt.Errorf("%w: unknown phase %q", domain.ErrValidation, phase)
	}
	p, err := s.protocols.GetByTourAndPhase(ctx, tourID, phase)
	if err != nil {
		return domain.TourProtocol{}, fmt.Errorf("service.ProtocolService.GetProtocol: %w", err)
	}
	return p, nil
}

// ownedSession loads a session and verifies it belongs to the caller.
// A foreign session is reported as not found, not as forbidden, so the
// response does not confirm the session's existence.
func (s *ProtocolService) ownedSession(ctx context.Context, sessionID, driverID uuid.UUID, op string) (*wizard.Session, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("service.ProtocolService.%s: %w", op, err)
	}
	if session.DriverID != driverID {
		return nil, fmt.Errorf("service.ProtocolService.%s: %w", op, domain.ErrNotFound)
	}
	return session, nil
}
