package domain

import (
	"time"

	"github.com/google/uuid"
)

// StatementRow is one work record priced for the monthly statement.
// EarningsCents is the driver-side amount, BillingCents the customer-side
// amount; both are zero for return-trip records.
type StatementRow struct {
	RecordID      uuid.UUID     `json:"record_id"`
	TourNumber    string        `json:"tour_number"`
	Date          time.Time     `json:"date"`
	DrivenKm      float64       `json:"driven_km"`
	Waiting       WaitingBucket `json:"waiting"`
	Ruecklaufer   bool          `json:"ruecklaufer"`
	Status        WorkStatus    `json:"status"`
	EarningsCents int64         `json:"earnings_cents"`
	BillingCents  int64         `json:"billing_cents"`
}

// Statement is the assembled monthly view for one driver: the priced rows
// plus the capped payout and the resolved carry-over surplus. This is the
// exact data a PDF statement renderer consumes.
type Statement struct {
	DriverID      uuid.UUID      `json:"driver_id"`
	Month         time.Time      `json:"month"`
	Rows          []StatementRow `json:"rows"`
	TotalCents    int64          `json:"total_cents"`
	LimitCents    int64          `json:"limit_cents"`
	PayoutCents   int64          `json:"payout_cents"`
	SurplusCents  int64          `json:"surplus_cents"`
	SurplusManual bool           `json:"surplus_manual"` // true when an operator override was applied
	BillingCents  int64          `json:"billing_cents"`  // customer-side month total
	ExpensesCents int64          `json:"expenses_cents"` // approved+paid expenses for the month
}
