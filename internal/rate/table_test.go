package rate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jkaindl/fahrerportal/backend/internal/domain"
	"github.com/jkaindl/fahrerportal/backend/internal/rate"
)

func TestDriverTable_Scenarios(t *testing.T) {
	// 15 km falls into the 20 km tier (12 EUR) plus the 30-60 waiting bonus (15 EUR).
	assert.Equal(t, int64(2700), rate.Driver.Total(15, domain.Waiting30to60))

	// 300 km sits exactly on its tier boundary.
	assert.Equal(t, int64(5600), rate.Driver.Amount(300))
	assert.Equal(t, int64(5600+2500), rate.Driver.Total(300, domain.Waiting60to90))
}

func TestCustomerTable_Scenarios(t *testing.T) {
	// 15 km → 23 EUR base plus 12 EUR waiting surcharge.
	assert.Equal(t, int64(3500), rate.Customer.Total(15, domain.Waiting30to60))
}

func TestTable_ClampsNonPositiveKm(t *testing.T) {
	assert.Equal(t, int64(0), rate.Driver.Amount(0))
	assert.Equal(t, int64(0), rate.Driver.Amount(-12))
	// Waiting surcharge still applies even at zero distance; the caller is
	// responsible for not feeding nonsensical upstream data.
	assert.Equal(t, int64(1500), rate.Driver.Total(0, domain.Waiting30to60))
}

func TestTable_SaturatesBeyondLastTier(t *testing.T) {
	last := rate.Driver.Tiers[len(rate.Driver.Tiers)-1].AmountCents
	assert.Equal(t, last, rate.Driver.Amount(801))
	assert.Equal(t, last, rate.Driver.Amount(5000))
}

// TestDriverTable_Monotonic walks the whole input range and checks the table
// never decreases: more kilometers never pay less.
func TestDriverTable_Monotonic(t *testing.T) {
	prev := int64(0)
	for km := 0.0; km <= 1000; km += 0.5 {
		got := rate.Driver.Amount(km)
		if got < prev {
			t.Fatalf("Amount(%v) = %d, less than previous %d", km, got, prev)
		}
		prev = got
	}
}

func TestTable_UnknownWaitingBucketPaysNothing(t *testing.T) {
	assert.Equal(t, int64(0), rate.Driver.WaitingSurcharge(domain.WaitingBucket("bogus")))
}

func TestTables_IdenticalTierBoundaries(t *testing.T) {
	if assert.Equal(t, len(rate.Driver.Tiers), len(rate.Customer.Tiers)) {
		for i := range rate.Driver.Tiers {
			assert.Equal(t, rate.Driver.Tiers[i].MaxKm, rate.Customer.Tiers[i].MaxKm, "tier %d", i)
		}
	}
}

func TestTourEarnings_RuecklauferAlwaysZero(t *testing.T) {
	rec := domain.WorkRecord{DrivenKm: 300, Waiting: domain.Waiting60to90, IstRuecklaufer: true}

	// Would be 56 + 25 EUR without the flag.
	assert.Equal(t, int64(0), rate.TourEarnings(rec))
	assert.Equal(t, int64(0), rate.TourBilling(rec))

	rec.IstRuecklaufer = false
	assert.Equal(t, int64(8100), rate.TourEarnings(rec))
}
