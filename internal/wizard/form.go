package wizard

import "github.com/jkaindl/fahrerportal/backend/internal/domain"

// RequiredPhotoCategories is the fixed set of photos every protocol must
// contain. Validation of the fotos step requires a captured image for each.
var RequiredPhotoCategories = []string{
	"front",
	"heck",
	"seite_links",
	"seite_rechts",
	"innenraum_vorne",
	"innenraum_hinten",
	"tacho",
}

// DamageEntry is one damage being declared in the schaeden step.
// Every entry needs a type, component, description, and at least one photo
// before the step validates.
type DamageEntry struct {
	Interior    bool     `json:"interior"` // false = exterior
	DamageType  string   `json:"damage_type"`
	Component   string   `json:"component"`
	Description string   `json:"description"`
	PhotoKeys   []string `json:"photo_keys"`
}

// FormData is the in-progress wizard state. It accumulates across steps and
// is only converted into a persisted domain.TourProtocol on submission.
// Abandoning the session discards it (the session store expires it).
//
// The two damage questions are pointers because "not answered yet" must be
// distinguishable from an explicit "no".
type FormData struct {
	Odometer  string           `json:"odometer"` // numeric string as entered
	FuelLevel domain.FuelLevel `json:"fuel_level"`

	// Electric-only. CableStatus is pre-filled with "not_present" at session
	// init, but the default alone does not validate: CableConfirmed must be
	// set by an explicit user selection first. The default is a display
	// hint, not an answer.
	CableStatus    domain.CableStatus `json:"cable_status,omitempty"`
	CableConfirmed bool               `json:"cable_confirmed"`

	TireType    domain.TireType    `json:"tire_type"`
	Accessories domain.Accessories `json:"accessories"`
	Hubcaps     domain.HubcapState `json:"hubcaps"`
	RimMaterial domain.RimMaterial `json:"rim_material"`

	Photos map[string]string `json:"photos"` // category → object key

	HasInteriorDamage *bool         `json:"has_interior_damage"`
	HasExteriorDamage *bool         `json:"has_exterior_damage"`
	Damages           []DamageEntry `json:"damages"`

	Outcome            domain.HandoverOutcome `json:"outcome,omitempty"`
	RecipientName      string                 `json:"recipient_name"`
	RecipientSignature string                 `json:"recipient_signature"`
	OutcomeNote        string                 `json:"outcome_note"`
	DriverSignature    string                 `json:"driver_signature"`

	Confirmed bool `json:"confirmed"`
}

// StepInput is a partial update to the form. Only non-nil fields are
// applied, so re-submitting one step's screen never clears data entered on
// other steps — back-and-forth navigation is additive and idempotent.
type StepInput struct {
	Odometer           *string                 `json:"odometer,omitempty"`
	FuelLevel          *domain.FuelLevel       `json:"fuel_level,omitempty"`
	CableStatus        *domain.CableStatus     `json:"cable_status,omitempty"`
	TireType           *domain.TireType        `json:"tire_type,omitempty"`
	Accessories        *domain.Accessories     `json:"accessories,omitempty"`
	Hubcaps            *domain.HubcapState     `json:"hubcaps,omitempty"`
	RimMaterial        *domain.RimMaterial     `json:"rim_material,omitempty"`
	Photos             map[string]string       `json:"photos,omitempty"` // merged per category
	HasInteriorDamage  *bool                   `json:"has_interior_damage,omitempty"`
	HasExteriorDamage  *bool                   `json:"has_exterior_damage,omitempty"`
	Damages            []DamageEntry           `json:"damages,omitempty"` // replaces the list when non-nil
	Outcome            *domain.HandoverOutcome `json:"outcome,omitempty"`
	RecipientName      *string                 `json:"recipient_name,omitempty"`
	RecipientSignature *string                 `json:"recipient_signature,omitempty"`
	OutcomeNote        *string                 `json:"outcome_note,omitempty"`
	DriverSignature    *string                 `json:"driver_signature,omitempty"`
	Confirmed          *bool                   `json:"confirmed,omitempty"`
}

// apply merges the input into the form. Selecting a cable status, even the
// pre-filled value, counts as the explicit confirmation the uebernahme step
// requires for electric vehicles.
func (f *FormData) apply(in StepInput) {
	if in.Odometer != nil {
		f.Odometer = *in.Odometer
	}
	if in.FuelLevel != nil {
		f.FuelLevel = *in.FuelLevel
	}
	if in.CableStatus != nil {
		f.CableStatus = *in.CableStatus
		f.CableConfirmed = true
	}
	if in.TireType != nil {
		f.TireType = *in.TireType
	}
	if in.Accessories != nil {
		f.Accessories = *in.Accessories
	}
	if in.Hubcaps != nil {
		f.Hubcaps = *in.Hubcaps
	}
	if in.RimMaterial != nil {
		f.RimMaterial = *in.RimMaterial
	}
	if in.Photos != nil {
		if f.Photos == nil {
			f.Photos = make(map[string]string, len(in.Photos))
		}
		for category, key := range in.Photos {
			f.Photos[category] = key
		}
	}
	if in.HasInteriorDamage != nil {
		f.HasInteriorDamage = in.HasInteriorDamage
	}
	if in.HasExteriorDamage != nil {
		f.HasExteriorDamage = in.HasExteriorDamage
	}
	if in.Damages != nil {
		f.Damages = in.Damages
	}
	if in.Outcome != nil {
		f.Outcome = *in.Outcome
	}
	if in.RecipientName != nil {
		f.RecipientName = *in.RecipientName
	}
	if in.RecipientSignature != nil {
		f.RecipientSignature = *in.RecipientSignature
	}
	if in.OutcomeNote != nil {
		f.OutcomeNote = *in.OutcomeNote
	}
	if in.DriverSignature != nil {
		f.DriverSignature = *in.DriverSignature
	}
	if in.Confirmed != nil {
		f.Confirmed = *in.Confirmed
	}
}
