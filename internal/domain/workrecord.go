package domain

import (
	"time"

	"github.com/google/uuid"
)

// WaitingBucket is the coarse waiting-time band a driver claims for a trip.
// Waiting pay is a flat surcharge per bucket, independent of the km tier.
type WaitingBucket string

const (
	WaitingNone    WaitingBucket = "none"
	Waiting30to60  WaitingBucket = "30-60"
	Waiting60to90  WaitingBucket = "60-90"
	Waiting90to120 WaitingBucket = "90-120"
)

// Valid reports whether wb is one of the known waiting buckets.
func (wb WaitingBucket) Valid() bool {
	switch wb {
	case WaitingNone, Waiting30to60, Waiting60to90, Waiting90to120:
		return true
	}
	return false
}

// WorkStatus is the approval state of a WorkRecord.
// Once billed, a record is immutable except by explicit admin override.
type WorkStatus string

const (
	WorkPending  WorkStatus = "pending"
	WorkApproved WorkStatus = "approved"
	WorkRejected WorkStatus = "rejected"
	WorkBilled   WorkStatus = "billed"
)

// Valid reports whether ws is one of the known approval states.
func (ws WorkStatus) Valid() bool {
	switch ws {
	case WorkPending, WorkApproved, WorkRejected, WorkBilled:
		return true
	}
	return false
}

// workTransitions encodes the admin approval workflow.
var workTransitions = map[WorkStatus][]WorkStatus{
	WorkPending:  {WorkApproved, WorkRejected},
	WorkApproved: {WorkBilled, WorkRejected},
}

// CanTransitionWork reports whether a work record may move between approval
// states through the regular workflow. Admin overrides bypass this check.
func CanTransitionWork(from, to WorkStatus) bool {
	for _, next := range workTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// WorkRecord ("Arbeitsnachweis") is one driver-submitted completed trip claim.
// IstRuecklaufer marks a non-billable return/repositioning leg: it zeroes the
// earnings for this record regardless of distance and waiting time.
type WorkRecord struct {
	ID             uuid.UUID     `json:"id"`
	DriverID       uuid.UUID     `json:"driver_id"`
	TourNumber     string        `json:"tour_number"`
	Date           time.Time     `json:"date"`
	DrivenKm       float64       `json:"driven_km"`
	Waiting        WaitingBucket `json:"waiting"`
	ProofKey       string        `json:"proof_key,omitempty"` // object-storage key of the proof document
	Status         WorkStatus    `json:"status"`
	IstRuecklaufer bool          `json:"ist_ruecklaufer"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}
