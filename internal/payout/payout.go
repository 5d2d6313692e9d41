// Package payout aggregates a driver's work records for one month and
// applies the statutory minor-employment ("Minijob") earnings ceiling.
// All functions are pure and operate on an already-fetched, immutable
// snapshot of records; there is no error path anywhere in this package.
package payout

import (
	"github.com/jkaindl/fahrerportal/backend/internal/domain"
	"github.com/jkaindl/fahrerportal/backend/internal/rate"
)

// DefaultLimitCents is the monthly minijob earnings ceiling, in cents.
// Overridable via configuration; the statutory value changes year to year.
const DefaultLimitCents int64 = 53821

// SumMonth totals the driver-side earnings over the given records.
// Return-trip records contribute 0 through rate.TourEarnings.
func SumMonth(records []domain.WorkRecord) int64 {
	var total int64
	for _, rec := range records {
		total += rate.TourEarnings(rec)
	}
	return total
}

// SumMonthBilling totals the customer-side amounts over the given records.
func SumMonthBilling(records []domain.WorkRecord) int64 {
	var total int64
	for _, rec := range records {
		total += rate.TourBilling(rec)
	}
	return total
}

// Split is the result of applying the earnings ceiling to a month total.
// Payout + Surplus always equals the input total for non-negative totals.
type Split struct {
	PayoutCents  int64
	SurplusCents int64
}

// SplitAtLimit caps total at limit and reports the overflow as surplus.
// Negative totals are clamped to zero before splitting.
func SplitAtLimit(totalCents, limitCents int64) Split {
	if totalCents < 0 {
		totalCents = 0
	}
	if totalCents <= limitCents {
		return Split{PayoutCents: totalCents}
	}
	return Split{PayoutCents: limitCents, SurplusCents: totalCents - limitCents}
}

// ResolveSurplus applies the manual-override precedence rule: a stored
// MonthlySurplus value wins unconditionally when present, even when the
// computed surplus is nonzero. Absence of an override falls back to the
// computed value.
func ResolveSurplus(override *int64, computedCents int64) int64 {
	if override != nil {
		return *override
	}
	return computedCents
}
