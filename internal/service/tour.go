// Package service contains the business logic for the Fahrerportal backend.
// Services validate inputs, enforce workflow rules, and orchestrate repo
// calls. No SQL lives here — services depend on repo interfaces, not
// implementations.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/jkaindl/fahrerportal/backend/internal/domain"
	"github.com/jkaindl/fahrerportal/backend/internal/maps"
	"github.com/jkaindl/fahrerportal/backend/internal/repo"
)

// DistanceEstimator computes the driving distance between two addresses.
// Implementations may fail for all the usual geocoding reasons; tour
// creation treats a failure as "distance unknown", not as an error.
type DistanceEstimator interface {
	DriveDistanceKm(ctx context.Context, origin, destination string) (float64, error)
}

// TourService implements business logic for Tour operations.
type TourService struct {
	tours    repo.TourRepo
	distance DistanceEstimator // nil disables the distance prefill
	logger   *slog.Logger
}

// NewTourService constructs a TourService. distance may be nil when no
// distance provider is configured.
func NewTourService(tours repo.TourRepo, distance DistanceEstimator, logger *slog.Logger) *TourService {
	return &TourService{tours: tours, distance: distance, logger: logger}
}

// Create validates and persists a new tour in status "new".
// When a distance provider is configured and the caller left DistanceKm
// unset, the pickup→dropoff driving distance is prefilled. A provider
// failure does not block creation: the tour is stored with distance zero
// and the classified provider code (REQUEST_DENIED, NOT_FOUND, ...) is
// returned as a warning so dispatch can tell a key problem from a bad
// address and fix the distance manually.
func (s *TourService) Create(ctx context.Context, tour domain.Tour) (domain.Tour, string, error) {
	if err := validateTour(tour); err != nil {
		return domain.Tour{}, "", err
	}

	tour.Status = domain.TourNew
	tour.DriverID = nil

	var warning string
	if tour.DistanceKm == 0 && s.distance != nil {
		km, err := s.distance.DriveDistanceKm(ctx, tour.Pickup.Address, tour.Dropoff.Address)
		if err != nil {
			warning = distanceWarning(err)
			s.logger.WarnContext(ctx, "distance prefill failed",
				"tour_number", tour.TourNumber, "code", warning, "error", err)
		} else {
			tour.DistanceKm = km
		}
	}

	result, err := s.tours.Create(ctx, tour)
	if err != nil {
		return domain.Tour{}, "", fmt.Errorf("service.TourService.Create: %w", err)
	}
	return result, warning, nil
}

// distanceWarning maps a distance provider error to its classified code.
func distanceWarning(err error) string {
	var de *maps.Error
	if errors.As(err, &de) {
		return de.Code
	}
	return maps.CodeUnknown
}

// GetByID returns a single tour by ID.
// Returns domain.ErrNotFound if no tour with that ID exists.
func (s *TourService) GetByID(ctx context.Context, id uuid.UUID) (domain.Tour, error) {
	result, err := s.tours.GetByID(ctx, id)
	if err != nil {
		return domain.Tour{}, fmt.Errorf("service.TourService.GetByID: %w", err)
	}
	return result, nil
}

// GetForDriver returns a tour only if it is assigned to the given driver.
// Returns domain.ErrForbidden when the tour belongs to someone else.
func (s *TourService) GetForDriver(ctx context.Context, driverID, tourID uuid.UUID) (domain.Tour, error) {
	tour, err := s.tours.GetByID(ctx, tourID)
	if err != nil {
		return domain.Tour{}, fmt.Errorf("service.TourService.GetForDriver: %w", err)
	}
	if tour.DriverID == nil || *tour.DriverID != driverID {
		return domain.Tour{}, fmt.Errorf("service.TourService.GetForDriver: %w", domain.ErrForbidden)
	}
	return tour, nil
}

// List returns all tours, newest first.
// Always returns a non-nil slice so callers can safely range over it.
func (s *TourService) List(ctx context.Context) ([]domain.Tour, error) {
	tours, err := s.tours.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.TourService.List: %w", err)
	}
	if tours == nil {
		return []domain.Tour{}, nil
	}
	return tours, nil
}

// ListByDriver returns the tours assigned to one driver, newest first.
// Always returns a non-nil slice so callers can safely range over it.
func (s *TourService) ListByDriver(ctx context.Context, driverID uuid.UUID) ([]domain.Tour, error) {
	tours, err := s.tours.ListByDriver(ctx, driverID)
	if err != nil {
		return nil, fmt.Errorf("service.TourService.ListByDriver: %w", err)
	}
	if tours == nil {
		return []domain.Tour{}, nil
	}
	return tours, nil
}

// AssignDriver hands an unassigned tour to a driver and opens the pickup
// phase. Returns domain.ErrConflict when the tour already left status "new".
func (s *TourService) AssignDriver(ctx context.Context, tourID, driverID uuid.UUID) (domain.Tour, error) {
	if err := s.tours.AssignDriver(ctx, tourID, driverID); err != nil {
		return domain.Tour{}, fmt.Errorf("service.TourService.AssignDriver: %w", err)
	}
	result, err := s.tours.GetByID(ctx, tourID)
	if err != nil {
		return domain.Tour{}, fmt.Errorf("service.TourService.AssignDriver: %w", err)
	}
	return result, nil
}

// SetDistance lets dispatch enter or correct the planned distance manually.
// Returns domain.ErrValidation for negative values.
func (s *TourService) SetDistance(ctx context.Context, tourID uuid.UUID, km float64) error {
	if km < 0 {
		return fmt.Errorf("%w: distance must not be negative", domain.ErrValidation)
	}
	if err := s.tours.SetDistance(ctx, tourID, km); err != nil {
		return fmt.Errorf("service.TourService.SetDistance: %w", err)
	}
	return nil
}

// validateTour enforces rules common to tour creation.
//   - TourNumber, Plate, and both stop addresses must be non-empty.
//   - VehicleType must be a known type.
//   - DistanceKm must not be negative.
func validateTour(tour domain.Tour) error {
	if strings.TrimSpace(tour.TourNumber) == "" {
		return fmt.Errorf("%w: tour_number is required", domain.ErrValidation)
	}
	if !tour.VehicleType.Valid() {
		return fmt.Errorf("%w: unknown vehicle_type %q", domain.ErrValidation, tour.VehicleType)
	}
	if strings.TrimSpace(tour.Plate) == "" {
		return fmt.Errorf("%w: plate is required", domain.ErrValidation)
	}
	if strings.TrimSpace(tour.Pickup.Address) == "" {
		return fmt.Errorf("%w: pickup address is required", domain.ErrValidation)
	}
	if strings.TrimSpace(tour.Dropoff.Address) == "" {
		return fmt.Errorf("%w: dropoff address is required", domain.ErrValidation)
	}
	if tour.DistanceKm < 0 {
		return fmt.Errorf("%w: distance must not be negative", domain.ErrValidation)
	}
	return nil
}
