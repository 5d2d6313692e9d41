package wizard

import (
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/jkaindl/fahrerportal/backend/internal/domain"
)

// ErrStepBlocked is returned by Next when the current step does not
// validate. The validation result carries the blocking fields.
var ErrStepBlocked = errors.New("current step is not complete")

// ErrNotSubmittable is returned by Snapshot when any step of the session
// fails validation, so an incomplete protocol can never be persisted even
// if a client bypasses the step-by-step flow.
var ErrNotSubmittable = errors.New("protocol is not complete")

// Session is one driver's in-progress protocol wizard. It is exclusively
// owned by that driver until submission; all transitions are synchronous
// responses to user actions, so no locking is needed.
type Session struct {
	ID          uuid.UUID            `json:"id"`
	TourID      uuid.UUID            `json:"tour_id"`
	DriverID    uuid.UUID            `json:"driver_id"`
	Phase       domain.ProtocolPhase `json:"phase"`
	VehicleType domain.VehicleType   `json:"vehicle_type"`
	Step        Step                 `json:"step"`
	Form        FormData             `json:"form"`

	// PriorDamages is the pickup protocol's damage list, shown read-only on
	// the vorschaeden step of a dropoff session. Empty for pickups.
	PriorDamages []domain.ProtocolDamage `json:"prior_damages,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSession starts a fresh wizard for the given tour and phase.
// Electric vehicles get the cable status pre-filled with "not_present";
// the pre-fill is deliberately unconfirmed (see FormData.CableConfirmed).
func NewSession(tour domain.Tour, driverID uuid.UUID, phase domain.ProtocolPhase, priorDamages []domain.ProtocolDamage) *Session {
	now := time.Now().UTC()
	s := &Session{
		ID:           uuid.New(),
		TourID:       tour.ID,
		DriverID:     driverID,
		Phase:        phase,
		VehicleType:  tour.VehicleType,
		Step:         FirstStep(),
		PriorDamages: priorDamages,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if tour.VehicleType.IsElectric() {
		s.Form.CableStatus = domain.CableNotPresent
	}
	return s
}

// IsElectric reports whether this session uses the electric-vehicle field
// semantics (charge level, mandatory cable check).
func (s *Session) IsElectric() bool { return s.VehicleType.IsElectric() }

// Apply merges a partial form update into the session. Updates are allowed
// on any step; re-visiting a step and re-applying its fields is idempotent
// and never touches other steps' data.
func (s *Session) Apply(in StepInput) {
	s.Form.apply(in)
	s.UpdatedAt = time.Now().UTC()
}

// Validate runs the current step's validation.
func (s *Session) Validate() Result {
	return ValidateStep(s.Step, &s.Form, s.IsElectric())
}

// Next advances to the following step. It returns ErrStepBlocked together
// with the validation result when the current step is incomplete, and does
// nothing at the last step (submission is a separate action).
func (s *Session) Next() (Result, error) {
	res := s.Validate()
	if !res.Valid {
		return res, ErrStepBlocked
	}
	if n, ok := next(s.Step); ok {
		s.Step = n
		s.UpdatedAt = time.Now().UTC()
	}
	return res, nil
}

// Prev steps back without re-validation. The returned bool is false when
// the session was already on the first step, which means "exit the wizard";
// the session itself is left unchanged in that case.
func (s *Session) Prev() bool {
	p, ok := prev(s.Step)
	if !ok {
		return false
	}
	s.Step = p
	s.UpdatedAt = time.Now().UTC()
	return true
}

// Snapshot validates every step and assembles the final protocol record.
// The captured signature images are already part of the form; they are
// carried into the snapshot verbatim. Damage and photo child rows receive
// their IDs from the persistence layer.
func (s *Session) Snapshot() (domain.TourProtocol, error) {
	for _, step := range Steps {
		if res := ValidateStep(step, &s.Form, s.IsElectric()); !res.Valid {
			return domain.TourProtocol{}, ErrNotSubmittable
		}
	}

	odometer, _ := strconv.Atoi(s.Form.Odometer) // validated numeric by StepUebernahme

	p := domain.TourProtocol{
		TourID:             s.TourID,
		DriverID:           s.DriverID,
		Phase:              s.Phase,
		OdometerKm:         odometer,
		FuelLevel:          s.Form.FuelLevel,
		TireType:           s.Form.TireType,
		Accessories:        s.Form.Accessories,
		Hubcaps:            s.Form.Hubcaps,
		RimMaterial:        s.Form.RimMaterial,
		Outcome:            s.Form.Outcome,
		RecipientName:      s.Form.RecipientName,
		RecipientSignature: s.Form.RecipientSignature,
		OutcomeNote:        s.Form.OutcomeNote,
		DriverSignature:    s.Form.DriverSignature,
		SubmittedAt:        time.Now().UTC(),
	}
	if s.IsElectric() {
		p.CableStatus = s.Form.CableStatus
	}

	for _, category := range RequiredPhotoCategories {
		p.Photos = append(p.Photos, domain.ProtocolPhoto{
			Category:  category,
			ObjectKey: s.Form.Photos[category],
		})
	}
	for _, d := range s.Form.Damages {
		p.Damages = append(p.Damages, domain.ProtocolDamage{
			Interior:    d.Interior,
			DamageType:  d.DamageType,
			Component:   d.Component,
			Description: d.Description,
			PhotoKeys:   d.PhotoKeys,
		})
	}

	return p, nil
}
