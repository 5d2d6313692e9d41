package domain

import (
	"time"

	"github.com/google/uuid"
)

// MonthlySurplus is an operator-entered override for the earnings carried
// over from a month because the statutory minijob ceiling was exceeded.
// When a row exists for (driver, month) it wins unconditionally over the
// surplus computed from the month's work records.
type MonthlySurplus struct {
	ID          uuid.UUID `json:"id"`
	DriverID    uuid.UUID `json:"driver_id"`
	Month       time.Time `json:"month"` // normalized to the first day of the month, UTC
	AmountCents int64     `json:"amount_cents"`
	Note        string    `json:"note,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NormalizeMonth truncates t to the first day of its month in UTC.
// All (driver, month) keys in the database use this normal form.
func NormalizeMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
