package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/jkaindl/fahrerportal/backend/internal/domain"
	"github.com/jkaindl/fahrerportal/backend/internal/repo"
)

// ExpenseService implements the driver submission and the admin approval
// workflow for expense records.
type ExpenseService struct {
	expenses repo.ExpenseRepo
	notifier Notifier // nil disables notifications
	logger   *slog.Logger
}

// NewExpenseService constructs an ExpenseService. notifier may be nil.
func NewExpenseService(expenses repo.ExpenseRepo, notifier Notifier, logger *slog.Logger) *ExpenseService {
	return &ExpenseService{expenses: expenses, notifier: notifier, logger: logger}
}

// Submit validates and persists a driver's expense record in status pending.
// The driver identity comes from the authenticated request, never from the
// payload.
func (s *ExpenseService) Submit(ctx context.Context, driverID uuid.UUID, rec domain.ExpenseRecord) (domain.ExpenseRecord, error) {
	rec.DriverID = driverID
	rec.Status = domain.ExpensePending

	if err := validateExpense(rec); err != nil {
		return domain.ExpenseRecord{}, err
	}

	result, err := s.expenses.Create(ctx, rec)
	if err != nil {
		return domain.ExpenseRecord{}, fmt.Errorf("service.ExpenseService.Submit: %w", err)
	}

	if s.notifier != nil {
		if err := s.notifier.ExpenseSubmitted(ctx, result); err != nil {
			s.logger.WarnContext(ctx, "expense notification failed",
				"record_id", result.ID, "error", err)
		}
	}
	return result, nil
}

// GetForDriver returns a record only if it belongs to the given driver.
// Returns domain.ErrForbidden when it belongs to someone else.
func (s *ExpenseService) GetForDriver(ctx context.Context, driverID, recordID uuid.UUID) (domain.ExpenseRecord, error) {
	rec, err := s.expenses.GetByID(ctx, recordID)
	if err != nil {
		return domain.ExpenseRecord{}, fmt.Errorf("service.ExpenseService.GetForDriver: %w", err)
	}
	if rec.DriverID != driverID {
		return domain.ExpenseRecord{}, fmt.Errorf("service.ExpenseService.GetForDriver: %w", domain.ErrForbidden)
	}
	return rec, nil
}

// ListForDriver returns one driver's records, newest first, plus the total
// count for pagination.
func (s *ExpenseService) ListForDriver(ctx context.Context, driverID uuid.UUID, params domain.PaginationParams) ([]domain.ExpenseRecord, int64, error) {
	records, total, err := s.expenses.ListByDriverPaged(ctx, driverID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("service.ExpenseService.ListForDriver: %w", err)
	}
	if records == nil {
		records = []domain.ExpenseRecord{}
	}
	return records, total, nil
}

// ListPending returns all records awaiting review, oldest first.
func (s *ExpenseService) ListPending(ctx context.Context) ([]domain.ExpenseRecord, error) {
	records, err := s.expenses.ListByStatus(ctx, domain.ExpensePending)
	if err != nil {
		return nil, fmt.Errorf("service.ExpenseService.ListPending: %w", err)
	}
	if records == nil {
		return []domain.ExpenseRecord{}, nil
	}
	return records, nil
}

// SetStatus moves a record through the approval workflow.
// Regular transitions follow the pending→approved→paid progression; force
// bypasses the progression check for admin corrections.
func (s *ExpenseService) SetStatus(ctx context.Context, recordID uuid.UUID, to domain.ExpenseStatus, force bool) (domain.ExpenseRecord, error) {
	if !to.Valid() {
		return domain.ExpenseRecord{}, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, to)
	}

	rec, err := s.expenses.GetByID(ctx, recordID)
	if err != nil {
		return domain.ExpenseRecord{}, fmt.Errorf("service.ExpenseService.SetStatus: %w", err)
	}

	if !force && !domain.CanTransitionExpense(rec.Status, to) {
		return domain.ExpenseRecord{}, fmt.Errorf("service.ExpenseService.SetStatus: %s → %s: %w",
			rec.Status, to, domain.ErrConflict)
	}

	if err := s.expenses.UpdateStatus(ctx, recordID, to); err != nil {
		return domain.ExpenseRecord{}, fmt.Errorf("service.ExpenseService.SetStatus: %w", err)
	}
	rec.Status = to

	if s.notifier != nil && (to == domain.ExpenseApproved || to == domain.ExpenseRejected) {
		if err := s.notifier.ExpenseDecided(ctx, rec); err != nil {
			s.logger.WarnContext(ctx, "expense decision notification failed",
				"record_id", rec.ID, "error", err)
		}
	}
	return rec, nil
}

// validateExpense enforces rules for driver submissions.
//   - TourNumber must be non-empty, Date must be set.
//   - Category must be a known category.
//   - AmountCents must be positive.
//   - Transport categories (taxi, rideshare, train) need a route.
func validateExpense(rec domain.ExpenseRecord) error {
	if strings.TrimSpace(rec.TourNumber) == "" {
		return fmt.Errorf("%w: tour_number is required", domain.ErrValidation)
	}
	if rec.Date.IsZero() {
		return fmt.Errorf("%w: date is required", domain.ErrValidation)
	}
	if !rec.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", domain.ErrValidation, rec.Category)
	}
	if rec.AmountCents <= 0 {
		return fmt.Errorf("%w: amount must be positive", domain.ErrValidation)
	}
	switch rec.Category {
	case domain.ExpenseTaxi, domain.ExpenseRideshare, domain.ExpenseTrainTicket:
		if strings.TrimSpace(rec.RouteFrom) == "" || strings.TrimSpace(rec.RouteTo) == "" {
			return fmt.Errorf("%w: route_from and route_to are required for %s", domain.ErrValidation, rec.Category)
		}
	}
	return nil
}
