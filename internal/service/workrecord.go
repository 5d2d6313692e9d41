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

// WorkRecordService implements the driver submission and the admin approval
// workflow for work records.
type WorkRecordService struct {
	records  repo.WorkRecordRepo
	notifier Notifier // nil disables notifications
	logger   *slog.Logger
}

// NewWorkRecordService constructs a WorkRecordService. notifier may be nil.
func NewWorkRecordService(records repo.WorkRecordRepo, notifier Notifier, logger *slog.Logger) *WorkRecordService {
	return &WorkRecordService{records: records, notifier: notifier, logger: logger}
}

// Submit validates and persists a driver's work record in status pending.
// The driver identity comes from the authenticated request, never from the
// payload.
func (s *WorkRecordService) Submit(ctx context.Context, driverID uuid.UUID, rec domain.WorkRecord) (domain.WorkRecord, error) {
	rec.DriverID = driverID
	rec.Status = domain.WorkPending

	if err := validateWorkRecord(rec); err != nil {
		return domain.WorkRecord{}, err
	}

	result, err := s.records.Create(ctx, rec)
	if err != nil {
		return domain.WorkRecord{}, fmt.Errorf("service.WorkRecordService.Submit: %w", err)
	}

	if s.notifier != nil {
		if err := s.notifier.WorkRecordSubmitted(ctx, result); err != nil {
			s.logger.WarnContext(ctx, "work record notification failed",
				"record_id", result.ID, "error", err)
		}
	}
	return result, nil
}

// GetForDriver returns a record only if it belongs to the given driver.
// Returns domain.ErrForbidden when it belongs to someone else.
func (s *WorkRecordService) GetForDriver(ctx context.Context, driverID, recordID uuid.UUID) (domain.WorkRecord, error) {
	rec, err := s.records.GetByID(ctx, recordID)
	if err != nil {
		return domain.WorkRecord{}, fmt.Errorf("service.WorkRecordService.GetForDriver: %w", err)
	}
	if rec.DriverID != driverID {
		return domain.WorkRecord{}, fmt.Errorf("service.WorkRecordService.GetForDriver: %w", domain.ErrForbidden)
	}
	return rec, nil
}

// ListForDriver returns one driver's records, newest first, plus the total
// count for pagination.
func (s *WorkRecordService) ListForDriver(ctx context.Context, driverID uuid.UUID, params domain.PaginationParams) ([]domain.WorkRecord, int64, error) {
	records, total, err := s.records.ListByDriverPaged(ctx, driverID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("service.WorkRecordService.ListForDriver: %w", err)
	}
	if records == nil {
		records = []domain.WorkRecord{}
	}
	return records, total, nil
}

// ListPending returns all records awaiting review, oldest first.
func (s *WorkRecordService) ListPending(ctx context.Context) ([]domain.WorkRecord, error) {
	records, err := s.records.ListByStatus(ctx, domain.WorkPending)
	if err != nil {
		return nil, fmt.Errorf("service.WorkRecordService.ListPending: %w", err)
	}
	if records == nil {
		return []domain.WorkRecord{}, nil
	}
	return records, nil
}

// SetStatus moves a record through the approval workflow.
// Regular transitions follow the pending→approved→billed progression;
// force bypasses the progression check for admin corrections (billed
// records are otherwise immutable).
func (s *WorkRecordService) SetStatus(ctx context.Context, recordID uuid.UUID, to domain.WorkStatus, force bool) (domain.WorkRecord, error) {
	if !to.Valid() {
		return domain.WorkRecord{}, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, to)
	}

	rec, err := s.records.GetByID(ctx, recordID)
	if err != nil {
		return domain.WorkRecord{}, fmt.Errorf("service.WorkRecordService.SetStatus: %w", err)
	}

	if !force && !domain.CanTransitionWork(rec.Status, to) {
		return domain.WorkRecord{}, fmt.Errorf("service.WorkRecordService.SetStatus: %s → %s: %w",
			rec.Status, to, domain.ErrConflict)
	}

	if err := s.records.UpdateStatus(ctx, recordID, to); err != nil {
		return domain.WorkRecord{}, fmt.Errorf("service.WorkRecordService.SetStatus: %w", err)
	}
	rec.Status = to

	if s.notifier != nil && (to == domain.WorkApproved || to == domain.WorkRejected) {
		if err := s.notifier.WorkRecordDecided(ctx, rec); err != nil {
			s.logger.WarnContext(ctx, "work record decision notification failed",
				"record_id", rec.ID, "error", err)
		}
	}
	return rec, nil
}

// validateWorkRecord enforces rules for driver submissions.
//   - TourNumber must be non-empty, Date must be set.
//   - DrivenKm must not be negative.
//   - Waiting must be a known bucket.
func validateWorkRecord(rec domain.WorkRecord) error {
	if strings.TrimSpace(rec.TourNumber) == "" {
		return fmt.Errorf("%w: tour_number is required", domain.ErrValidation)
	}
	if rec.Date.IsZero() {
		return fmt.Errorf("%w: date is required", domain.ErrValidation)
	}
	if rec.DrivenKm < 0 {
		return fmt.Errorf("%w: driven_km must not be negative", domain.ErrValidation)
	}
	if !rec.Waiting.Valid() {
		return fmt.Errorf("%w: unknown waiting bucket %q", domain.ErrValidation, rec.Waiting)
	}
	return nil
}
