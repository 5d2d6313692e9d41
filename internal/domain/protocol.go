package domain

import (
	"time"

	"github.com/google/uuid"
)

// ProtocolPhase distinguishes the pickup inspection ("Übernahme") from the
// dropoff inspection ("Abgabe"). A tour has at most one open phase at a time.
type ProtocolPhase string

const (
	PhasePickup  ProtocolPhase = "uebernahme"
	PhaseDropoff ProtocolPhase = "abgabe"
)

// Valid reports whether p is a known protocol phase.
func (p ProtocolPhase) Valid() bool {
	return p == PhasePickup || p == PhaseDropoff
}

// FuelLevel is the coarse fuel (or, for electric vehicles, charge) bucket
// recorded during the inspection.
type FuelLevel string

const (
	FuelEmpty        FuelLevel = "0"
	FuelQuarter      FuelLevel = "25"
	FuelHalf         FuelLevel = "50"
	FuelThreeQuarter FuelLevel = "75"
	FuelFull         FuelLevel = "100"
)

// Valid reports whether f is a known fuel/charge bucket.
func (f FuelLevel) Valid() bool {
	switch f {
	case FuelEmpty, FuelQuarter, FuelHalf, FuelThreeQuarter, FuelFull:
		return true
	}
	return false
}

// TireType is the fitted tire set.
type TireType string

const (
	TiresSommer     TireType = "sommer"
	TiresWinter     TireType = "winter"
	TiresGanzjahres TireType = "ganzjahres"
)

// Valid reports whether tt is a known tire type.
func (tt TireType) Valid() bool {
	return tt == TiresSommer || tt == TiresWinter || tt == TiresGanzjahres
}

// CableStatus records whether the charging cable was found with an electric
// vehicle. Non-electric vehicles leave it empty.
type CableStatus string

const (
	CablePresent    CableStatus = "present"
	CableNotPresent CableStatus = "not_present"
)

// HubcapState is tri-state because hubcaps do not apply to alloy rims.
type HubcapState string

const (
	HubcapsPresent       HubcapState = "present"
	HubcapsMissing       HubcapState = "missing"
	HubcapsNotApplicable HubcapState = "not_applicable"
)

// RimMaterial is the wheel rim material noted during the inspection.
type RimMaterial string

const (
	RimSteel RimMaterial = "stahl"
	RimAlloy RimMaterial = "alu"
)

// HandoverOutcome is how the handover at the counterpart ended.
// RecipientPresent requires a recipient name and signature; the other two
// require an explanatory note instead.
type HandoverOutcome string

const (
	RecipientPresent HandoverOutcome = "recipient_present"
	RecipientAbsent  HandoverOutcome = "recipient_absent"
	RecipientRefused HandoverOutcome = "recipient_refused"
)

// Valid reports whether o is a known handover outcome.
func (o HandoverOutcome) Valid() bool {
	return o == RecipientPresent || o == RecipientAbsent || o == RecipientRefused
}

// Accessories is the set of presence checks walked through during the
// inspection. All fields default to absent; none is mandatory.
type Accessories struct {
	Registration  bool `json:"registration"`   // Zulassungsbescheinigung
	ServiceBook   bool `json:"service_book"`   // Serviceheft
	NavSDCard     bool `json:"nav_sd_card"`    // Navi-SD-Karte
	FloorMats     bool `json:"floor_mats"`     // Fußmatten
	PlatesPresent bool `json:"plates_present"` // Kennzeichen montiert
	RadioWithCode bool `json:"radio_with_code"`
	Antenna       bool `json:"antenna"`
	SafetyKit     bool `json:"safety_kit"` // Warndreieck/Weste/Verbandskasten
}

// ProtocolDamage is one declared damage on a protocol. A dropoff protocol
// additionally sees the pickup protocol's damages as a read-only baseline;
// those rows stay attached to the pickup protocol and are never merged.
type ProtocolDamage struct {
	ID          uuid.UUID `json:"id"`
	ProtocolID  uuid.UUID `json:"protocol_id"`
	Interior    bool      `json:"interior"` // false = exterior
	DamageType  string    `json:"damage_type"`
	Component   string    `json:"component"`
	Description string    `json:"description"`
	PhotoKeys   []string  `json:"photo_keys"` // at least one per damage
	CreatedAt   time.Time `json:"created_at"`
}

// ProtocolPhoto is one required-category photo captured during the protocol.
type ProtocolPhoto struct {
	ID         uuid.UUID `json:"id"`
	ProtocolID uuid.UUID `json:"protocol_id"`
	Category   string    `json:"category"`
	ObjectKey  string    `json:"object_key"`
	CreatedAt  time.Time `json:"created_at"`
}

// TourProtocol is the persisted result of one completed wizard session.
// It is written atomically together with its photos and damages; the same
// transaction advances the tour status (pickup → in_transit/dropoff_open,
// dropoff → completed).
type TourProtocol struct {
	ID                 uuid.UUID        `json:"id"`
	TourID             uuid.UUID        `json:"tour_id"`
	DriverID           uuid.UUID        `json:"driver_id"`
	Phase              ProtocolPhase    `json:"phase"`
	OdometerKm         int              `json:"odometer_km"`
	FuelLevel          FuelLevel        `json:"fuel_level"`
	CableStatus        CableStatus      `json:"cable_status,omitempty"`
	TireType           TireType         `json:"tire_type"`
	Accessories        Accessories      `json:"accessories"`
	Hubcaps            HubcapState      `json:"hubcaps"`
	RimMaterial        RimMaterial      `json:"rim_material"`
	Outcome            HandoverOutcome  `json:"outcome"`
	RecipientName      string           `json:"recipient_name,omitempty"`
	RecipientSignature string           `json:"recipient_signature,omitempty"` // data-URL encoded image
	OutcomeNote        string           `json:"outcome_note,omitempty"`
	DriverSignature    string           `json:"driver_signature"`
	Photos             []ProtocolPhoto  `json:"photos,omitempty"`
	Damages            []ProtocolDamage `json:"damages,omitempty"`
	SubmittedAt        time.Time        `json:"submitted_at"`
}
