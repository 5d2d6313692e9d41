// Package wizard implements the tour-protocol wizard: a fixed-order sequence
// of data-capture steps for a pickup ("Übernahme") or dropoff ("Abgabe")
// vehicle inspection. Forward navigation is gated by per-step validation;
// backward navigation is always allowed and never discards entered data.
// The wizard itself has no side effects — submission hands one atomic
// snapshot to the persistence layer, which also advances the tour status.
package wizard

// Step identifies one screen of the protocol wizard.
type Step string

const (
	StepAuftragsdaten  Step = "auftragsdaten"  // read-only order summary
	StepUebernahme     Step = "uebernahme"     // odometer, fuel/charge, tires, accessories
	StepFotos          Step = "fotos"          // required photo set
	StepVorschaeden    Step = "vorschaeden"    // read-only pre-existing damages (dropoff only)
	StepSchaeden       Step = "schaeden"       // damage declaration and entries
	StepUnterschriften Step = "unterschriften" // signatures and handover outcome
	StepBestaetigung   Step = "bestaetigung"   // summary and final confirmation
)

// Steps is the fixed visiting order. There is no skipping: steps are walked
// strictly in this order, one at a time, in both directions.
var Steps = [...]Step{
	StepAuftragsdaten,
	StepUebernahme,
	StepFotos,
	StepVorschaeden,
	StepSchaeden,
	StepUnterschriften,
	StepBestaetigung,
}

// FirstStep returns the entry step of the wizard.
func FirstStep() Step { return Steps[0] }

// LastStep returns the final step, from which only submission continues.
func LastStep() Step { return Steps[len(Steps)-1] }

// stepIndex returns the position of s in the visiting order, or -1 for an
// unknown step.
func stepIndex(s Step) int {
	for i, step := range Steps {
		if step == s {
			return i
		}
	}
	return -1
}

// next returns the step after s. ok is false at the last step.
func next(s Step) (Step, bool) {
	i := stepIndex(s)
	if i < 0 || i == len(Steps)-1 {
		return s, false
	}
	return Steps[i+1], true
}

// prev returns the step before s. ok is false at the first step, where
// going back means exiting the wizard instead.
func prev(s Step) (Step, bool) {
	i := stepIndex(s)
	if i <= 0 {
		return s, false
	}
	return Steps[i-1], true
}
