// Package rate implements the tiered distance rate tables used to price a
// completed trip for both audiences: the driver payout and the customer bill.
//
// Both tables share the same tier boundaries and the same lookup algorithm;
// only the amounts differ. Rates are data, not code: the tables below are
// the single source of truth and the lookup never fails — out-of-range
// inputs are clamped, never rejected.
package rate

import "github.com/jkaindl/fahrerportal/backend/internal/domain"

// Tier is one step of a rate table: every distance up to and including
// MaxKm pays AmountCents.
type Tier struct {
	MaxKm       float64
	AmountCents int64
}

// Table is a saturating step function over ascending, non-overlapping tiers
// plus a flat waiting-time surcharge per bucket. The surcharge does not
// scale with the km tier.
type Table struct {
	Tiers   []Tier
	Waiting map[domain.WaitingBucket]int64
}

// Amount returns the tier amount for the given distance.
// km <= 0 yields 0; distances beyond the last tier saturate at the last
// tier's amount rather than extrapolating.
func (t Table) Amount(km float64) int64 {
	if km <= 0 {
		return 0
	}
	for _, tier := range t.Tiers {
		if km <= tier.MaxKm {
			return tier.AmountCents
		}
	}
	return t.Tiers[len(t.Tiers)-1].AmountCents
}

// WaitingSurcharge returns the flat surcharge for the given bucket.
// Unknown buckets pay nothing.
func (t Table) WaitingSurcharge(bucket domain.WaitingBucket) int64 {
	return t.Waiting[bucket]
}

// Total returns the km amount plus the waiting surcharge.
func (t Table) Total(km float64, bucket domain.WaitingBucket) int64 {
	return t.Amount(km) + t.WaitingSurcharge(bucket)
}

// Driver is the payout table applied to driver work records.
var Driver = Table{
	Tiers: []Tier{
		{MaxKm: 20, AmountCents: 1200},
		{MaxKm: 30, AmountCents: 1400},
		{MaxKm: 40, AmountCents: 1600},
		{MaxKm: 50, AmountCents: 1800},
		{MaxKm: 75, AmountCents: 2200},
		{MaxKm: 100, AmountCents: 2600},
		{MaxKm: 150, AmountCents: 3400},
		{MaxKm: 200, AmountCents: 4200},
		{MaxKm: 250, AmountCents: 4900},
		{MaxKm: 300, AmountCents: 5600},
		{MaxKm: 400, AmountCents: 6800},
		{MaxKm: 500, AmountCents: 7800},
		{MaxKm: 600, AmountCents: 8800},
		{MaxKm: 700, AmountCents: 9800},
		{MaxKm: 800, AmountCents: 10800},
	},
	Waiting: map[domain.WaitingBucket]int64{
		domain.WaitingNone:    0,
		domain.Waiting30to60:  1500,
		domain.Waiting60to90:  2500,
		domain.Waiting90to120: 3500,
	},
}

// Customer is the billing table applied to the customer-side statement.
// Identical tier boundaries, higher amounts.
var Customer = Table{
	Tiers: []Tier{
		{MaxKm: 20, AmountCents: 2300},
		{MaxKm: 30, AmountCents: 2600},
		{MaxKm: 40, AmountCents: 2900},
		{MaxKm: 50, AmountCents: 3200},
		{MaxKm: 75, AmountCents: 3800},
		{MaxKm: 100, AmountCents: 4400},
		{MaxKm: 150, AmountCents: 5500},
		{MaxKm: 200, AmountCents: 6600},
		{MaxKm: 250, AmountCents: 7600},
		{MaxKm: 300, AmountCents: 8600},
		{MaxKm: 400, AmountCents: 10400},
		{MaxKm: 500, AmountCents: 12000},
		{MaxKm: 600, AmountCents: 13600},
		{MaxKm: 700, AmountCents: 15200},
		{MaxKm: 800, AmountCents: 16800},
	},
	Waiting: map[domain.WaitingBucket]int64{
		domain.WaitingNone:    0,
		domain.Waiting30to60:  1200,
		domain.Waiting60to90:  2000,
		domain.Waiting90to120: 2800,
	},
}

// TourEarnings prices one work record for the driver payout.
// A return-trip record ("Rückläufer") always earns 0, regardless of distance
// and waiting time; the check happens before any table lookup.
func TourEarnings(rec domain.WorkRecord) int64 {
	if rec.IstRuecklaufer {
		return 0
	}
	return Driver.Total(rec.DrivenKm, rec.Waiting)
}

// TourBilling prices one work record for the customer statement.
// Return-trip records are not billable either.
func TourBilling(rec domain.WorkRecord) int64 {
	if rec.IstRuecklaufer {
		return 0
	}
	return Customer.Total(rec.DrivenKm, rec.Waiting)
}
