package wizard

import (
	"strconv"
	"strings"

	"github.com/jkaindl/fahrerportal/backend/internal/domain"
)

// Result is the outcome of validating one step. Missing lists the fields
// (or field-like conditions) that block forward navigation, so clients can
// show field-level errors instead of only a disabled button.
type Result struct {
	Valid   bool     `json:"valid"`
	Missing []string `json:"missing,omitempty"`
}

// ValidateStep checks whether the form satisfies the given step's
// requirements. isElectric switches on the electric-only cable check.
// Display-only steps (auftragsdaten, vorschaeden) are always valid.
func ValidateStep(step Step, form *FormData, isElectric bool) Result {
	var missing []string

	switch step {
	case StepAuftragsdaten, StepVorschaeden:
		// Display only.

	case StepUebernahme:
		if !isNumeric(form.Odometer) {
			missing = append(missing, "odometer")
		}
		if !form.FuelLevel.Valid() {
			missing = append(missing, "fuel_level")
		}
		if !form.TireType.Valid() {
			missing = append(missing, "tire_type")
		}
		// The pre-filled default does not count as a selection; the driver
		// must confirm the cable status explicitly.
		if isElectric && !form.CableConfirmed {
			missing = append(missing, "cable_status")
		}

	case StepFotos:
		for _, category := range RequiredPhotoCategories {
			if form.Photos[category] == "" {
				missing = append(missing, "photos."+category)
			}
		}

	case StepSchaeden:
		missing = validateSchaeden(form)

	case StepUnterschriften:
		missing = validateUnterschriften(form)

	case StepBestaetigung:
		if !form.Confirmed {
			missing = append(missing, "confirmed")
		}

	default:
		missing = append(missing, "unknown_step")
	}

	return Result{Valid: len(missing) == 0, Missing: missing}
}

// validateSchaeden requires both damage questions to be answered; a "yes"
// on either requires at least one fully-filled damage entry, and every
// entry must be complete.
func validateSchaeden(form *FormData) []string {
	var missing []string

	if form.HasInteriorDamage == nil {
		missing = append(missing, "has_interior_damage")
	}
	if form.HasExteriorDamage == nil {
		missing = append(missing, "has_exterior_damage")
	}

	anyDamage := (form.HasInteriorDamage != nil && *form.HasInteriorDamage) ||
		(form.HasExteriorDamage != nil && *form.HasExteriorDamage)
	if anyDamage && len(form.Damages) == 0 {
		missing = append(missing, "damages")
	}

	for i, d := range form.Damages {
		prefix := "damages." + strconv.Itoa(i) + "."
		if strings.TrimSpace(d.DamageType) == "" {
			missing = append(missing, prefix+"damage_type")
		}
		if strings.TrimSpace(d.Component) == "" {
			missing = append(missing, prefix+"component")
		}
		if strings.TrimSpace(d.Description) == "" {
			missing = append(missing, prefix+"description")
		}
		if len(d.PhotoKeys) == 0 {
			missing = append(missing, prefix+"photo_keys")
		}
	}

	return missing
}

// validateUnterschriften requires the driver signature, a handover outcome,
// and the outcome's conditional fields: name + signature when the recipient
// was present, an explanatory note otherwise.
func validateUnterschriften(form *FormData) []string {
	var missing []string

	if strings.TrimSpace(form.DriverSignature) == "" {
		missing = append(missing, "driver_signature")
	}

	if !form.Outcome.Valid() {
		missing = append(missing, "outcome")
		return missing
	}

	switch form.Outcome {
	case domain.RecipientPresent:
		if strings.TrimSpace(form.RecipientName) == "" {
			missing = append(missing, "recipient_name")
		}
		if strings.TrimSpace(form.RecipientSignature) == "" {
			missing = append(missing, "recipient_signature")
		}
	default:
		if strings.TrimSpace(form.OutcomeNote) == "" {
			missing = append(missing, "outcome_note")
		}
	}

	return missing
}

// isNumeric reports whether s is a non-empty, non-negative integer string.
func isNumeric(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	n, err := strconv.Atoi(s)
	return err == nil && n >= 0
}
