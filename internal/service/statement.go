package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jkaindl/fahrerportal/backend/internal/domain"
	"github.com/jkaindl/fahrerportal/backend/internal/payout"
	"github.com/jkaindl/fahrerportal/backend/internal/rate"
	"github.com/jkaindl/fahrerportal/backend/internal/repo"
)

// StatementService assembles the monthly payout statement for a driver:
// every work record of the month priced against the rate tables, the month
// total split at the earnings ceiling, and the carry-over surplus with the
// manual-override precedence applied.
type StatementService struct {
	records    repo.WorkRecordRepo
	expenses   repo.ExpenseRepo
	surpluses  repo.SurplusRepo
	limitCents int64
}

// NewStatementService constructs a StatementService. limitCents <= 0 falls
// back to the statutory default ceiling.
func NewStatementService(records repo.WorkRecordRepo, expenses repo.ExpenseRepo, surpluses repo.SurplusRepo, limitCents int64) *StatementService {
	if limitCents <= 0 {
		limitCents = payout.DefaultLimitCents
	}
	return &StatementService{records: records, expenses: expenses, surpluses: surpluses, limitCents: limitCents}
}

// Monthly builds the statement for one driver and month. A month with no
// records yields an empty statement, not an error.
func (s *StatementService) Monthly(ctx context.Context, driverID uuid.UUID, month time.Time) (domain.Statement, error) {
	month = domain.NormalizeMonth(month)

	records, err := s.records.ListByDriverMonth(ctx, driverID, month)
	if err != nil {
		return domain.Statement{}, fmt.Errorf("service.StatementService.Monthly: %w", err)
	}

	rows := make([]domain.StatementRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, domain.StatementRow{
			RecordID:      rec.ID,
			TourNumber:    rec.TourNumber,
			Date:          rec.Date,
			DrivenKm:      rec.DrivenKm,
			Waiting:       rec.Waiting,
			Ruecklaufer:   rec.IstRuecklaufer,
			Status:        rec.Status,
			EarningsCents: rate.TourEarnings(rec),
			BillingCents:  rate.TourBilling(rec),
		})
	}

	total := payout.SumMonth(records)
	split := payout.SplitAtLimit(total, s.limitCents)

	var override *int64
	stored, err := s.surpluses.Get(ctx, driverID, month)
	switch {
	case err == nil:
		override = &stored.AmountCents
	case errors.Is(err, domain.ErrNotFound):
		// no override, the computed surplus stands
	default:
		return domain.Statement{}, fmt.Errorf("service.StatementService.Monthly: %w", err)
	}

	expensesCents, err := s.approvedExpenses(ctx, driverID, month)
	if err != nil {
		return domain.Statement{}, fmt.Errorf("service.StatementService.Monthly: %w", err)
	}

	return domain.Statement{
		DriverID:      driverID,
		Month:         month,
		Rows:          rows,
		TotalCents:    total,
		LimitCents:    s.limitCents,
		PayoutCents:   split.PayoutCents,
		SurplusCents:  payout.ResolveSurplus(override, split.SurplusCents),
		SurplusManual: override != nil,
		BillingCents:  payout.SumMonthBilling(records),
		ExpensesCents: expensesCents,
	}, nil
}

// SetSurplusOverride stores an operator-entered carry-over amount for
// (driver, month). It wins over the computed surplus until cleared.
func (s *StatementService) SetSurplusOverride(ctx context.Context, rec domain.MonthlySurplus) (domain.MonthlySurplus, error) {
	if rec.AmountCents < 0 {
		return domain.MonthlySurplus{}, fmt.Errorf("%w: amount must not be negative", domain.ErrValidation)
	}
	result, err := s.surpluses.Upsert(ctx, rec)
	if err != nil {
		return domain.MonthlySurplus{}, fmt.Errorf("service.StatementService.SetSurplusOverride: %w", err)
	}
	return result, nil
}

// ClearSurplusOverride removes the override so the computed surplus applies
// again. Returns domain.ErrNotFound when none exists.
func (s *StatementService) ClearSurplusOverride(ctx context.Context, driverID uuid.UUID, month time.Time) error {
	if err := s.surpluses.Delete(ctx, driverID, month); err != nil {
		return fmt.Errorf("service.StatementService.ClearSurplusOverride: %w", err)
	}
	return nil
}

// approvedExpenses sums the month's expense records that passed review
// (approved or already paid out).
func (s *StatementService) approvedExpenses(ctx context.Context, driverID uuid.UUID, month time.Time) (int64, error) {
	records, err := s.expenses.ListByDriverMonth(ctx, driverID, month)
	if err != nil {
		return 0, err
	}
	var sum int64
	for _, rec := range records {
		if rec.Status == domain.ExpenseApproved || rec.Status == domain.ExpensePaid {
			sum += rec.AmountCents
		}
	}
	return sum, nil
}
