package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jkaindl/fahrerportal/backend/internal/domain"
	"github.com/jkaindl/fahrerportal/backend/internal/repo"
)

func TestSurplusRepo_UpsertAndGet(t *testing.T) {
	tx := newTestTx(t)
	surpluses := repo.NewSurplusRepo(tx)
	ctx := context.Background()

	driverID := uuid.New()
	march := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	created, err := surpluses.Upsert(ctx, domain.MonthlySurplus{
		DriverID:    driverID,
		Month:       march,
		AmountCents: 4200,
		Note:        "Nachzahlung Februar",
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, march, created.Month)

	// Lookups normalize too: any timestamp within the month finds the row.
	got, err := surpluses.Get(ctx, driverID, time.Date(2026, 3, 17, 9, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, int64(4200), got.AmountCents)
	assert.Equal(t, "Nachzahlung Februar", got.Note)
}

func TestSurplusRepo_Upsert_ReplacesExisting(t *testing.T) {
	tx := newTestTx(t)
	surpluses := repo.NewSurplusRepo(tx)
	ctx := context.Background()

	driverID := uuid.New()
	march := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	first, err := surpluses.Upsert(ctx, domain.MonthlySurplus{DriverID: driverID, Month: march, AmountCents: 4200})
	require.NoError(t, err)

	// Mid-month input keys to the same row as the first-of-month input.
	second, err := surpluses.Upsert(ctx, domain.MonthlySurplus{
		DriverID:    driverID,
		Month:       time.Date(2026, 3, 22, 0, 0, 0, 0, time.UTC),
		AmountCents: 5100,
		Note:        "korrigiert",
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, int64(5100), second.AmountCents)

	got, err := surpluses.Get(ctx, driverID, march)
	require.NoError(t, err)
	assert.Equal(t, int64(5100), got.AmountCents)
}

func TestSurplusRepo_Get_NotFound(t *testing.T) {
	tx := newTestTx(t)
	surpluses := repo.NewSurplusRepo(tx)
	ctx := context.Background()

	driverID := uuid.New()
	march := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	_, err := surpluses.Get(ctx, driverID, march)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// An override for a different month does not leak across.
	_, err = surpluses.Upsert(ctx, domain.MonthlySurplus{
		DriverID:    driverID,
		Month:       time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		AmountCents: 1000,
	})
	require.NoError(t, err)

	_, err = surpluses.Get(ctx, driverID, march)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSurplusRepo_Delete(t *testing.T) {
	tx := newTestTx(t)
	surpluses := repo.NewSurplusRepo(tx)
	ctx := context.Background()

	driverID := uuid.New()
	march := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	_, err := surpluses.Upsert(ctx, domain.MonthlySurplus{DriverID: driverID, Month: march, AmountCents: 4200})
	require.NoError(t, err)

	require.NoError(t, surpluses.Delete(ctx, driverID, march))

	_, err = surpluses.Get(ctx, driverID, march)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = surpluses.Delete(ctx, driverID, march)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
