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

func expenseFixture(driverID uuid.UUID) domain.ExpenseRecord {
	return domain.ExpenseRecord{
		DriverID:    driverID,
		TourNumber:  "T-2026-0042",
		Plate:       "M-AB 1234",
		Date:        time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC),
		RouteFrom:   "München Hbf",
		RouteTo:     "Werkstraße 12",
		Category:    domain.ExpenseTaxi,
		AmountCents: 1890,
		ProofKey:    "expenses/2026/03/taxi-001.jpg",
		Status:      domain.ExpensePending,
	}
}

func TestExpenseRepo_CreateAndGet(t *testing.T) {
	tx := newTestTx(t)
	expenses := repo.NewExpenseRepo(tx)
	ctx := context.Background()

	driverID := uuid.New()
	created, err := expenses.Create(ctx, expenseFixture(driverID))

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, domain.ExpensePending, created.Status)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := expenses.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, driverID, got.DriverID)
	assert.Equal(t, domain.ExpenseTaxi, got.Category)
	assert.Equal(t, int64(1890), got.AmountCents)
	assert.Equal(t, "München Hbf", got.RouteFrom)
}

func TestExpenseRepo_GetByID_NotFound(t *testing.T) {
	tx := newTestTx(t)
	expenses := repo.NewExpenseRepo(tx)

	_, err := expenses.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestExpenseRepo_ListByDriverMonth(t *testing.T) {
	tx := newTestTx(t)
	expenses := repo.NewExpenseRepo(tx)
	ctx := context.Background()

	driverID := uuid.New()
	otherDriver := uuid.New()

	inMonth := expenseFixture(driverID)
	inMonth.Date = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	_, err := expenses.Create(ctx, inMonth)
	require.NoError(t, err)

	lastDay := expenseFixture(driverID)
	lastDay.Date = time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	_, err = expenses.Create(ctx, lastDay)
	require.NoError(t, err)

	nextMonth := expenseFixture(driverID)
	nextMonth.Date = time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	_, err = expenses.Create(ctx, nextMonth)
	require.NoError(t, err)

	foreign := expenseFixture(otherDriver)
	foreign.Date = time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	_, err = expenses.Create(ctx, foreign)
	require.NoError(t, err)

	// Any timestamp within the month selects that month.
	got, err := expenses.ListByDriverMonth(ctx, driverID, time.Date(2026, 3, 20, 14, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, got[0].Date.Before(got[1].Date), "records must be ordered by date ascending")
}

func TestExpenseRepo_ListByDriverPaged(t *testing.T) {
	tx := newTestTx(t)
	expenses := repo.NewExpenseRepo(tx)
	ctx := context.Background()

	driverID := uuid.New()
	for i := 0; i < 5; i++ {
		rec := expenseFixture(driverID)
		rec.Date = time.Date(2026, 3, 1+i, 0, 0, 0, 0, time.UTC)
		_, err := expenses.Create(ctx, rec)
		require.NoError(t, err)
	}

	page, total, err := expenses.ListByDriverPaged(ctx, driverID, domain.PaginationParams{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	assert.Len(t, page, 2)

	lastPage, _, err := expenses.ListByDriverPaged(ctx, driverID, domain.PaginationParams{Page: 3, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, lastPage, 1)
}

func TestExpenseRepo_UpdateStatus(t *testing.T) {
	tx := newTestTx(t)
	expenses := repo.NewExpenseRepo(tx)
	ctx := context.Background()

	created, err := expenses.Create(ctx, expenseFixture(uuid.New()))
	require.NoError(t, err)

	require.NoError(t, expenses.UpdateStatus(ctx, created.ID, domain.ExpenseApproved))

	got, err := expenses.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ExpenseApproved, got.Status)

	err = expenses.UpdateStatus(ctx, uuid.New(), domain.ExpenseApproved)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
