package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jkaindl/fahrerportal/backend/internal/domain"
	"github.com/jkaindl/fahrerportal/backend/internal/maps"
	"github.com/jkaindl/fahrerportal/backend/internal/repo"
	"github.com/jkaindl/fahrerportal/backend/internal/service"
)

// ---- mock repos ------------------------------------------------------------

// mockTourRepo is a hand-written test double for repo.TourRepo.
type mockTourRepo struct {
	create       func(ctx context.Context, tour domain.Tour) (domain.Tour, error)
	getByID      func(ctx context.Context, id uuid.UUID) (domain.Tour, error)
	list         func(ctx context.Context) ([]domain.Tour, error)
	listByDriver func(ctx context.Context, driverID uuid.UUID) ([]domain.Tour, error)
	assignDriver func(ctx context.Context, id, driverID uuid.UUID) error
	updateStatus func(ctx context.Context, id uuid.UUID, from, to domain.TourStatus) error
	setDistance  func(ctx context.Context, id uuid.UUID, km float64) error
}

func (m *mockTourRepo) Create(ctx context.Context, tour domain.Tour) (domain.Tour, error) {
	return m.create(ctx, tour)
}
func (m *mockTourRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Tour, error) {
	return m.getByID(ctx, id)
}
func (m *mockTourRepo) List(ctx context.Context) ([]domain.Tour, error) {
	return m.list(ctx)
}
func (m *mockTourRepo) ListByDriver(ctx context.Context, driverID uuid.UUID) ([]domain.Tour, error) {
	return m.listByDriver(ctx, driverID)
}
func (m *mockTourRepo) AssignDriver(ctx context.Context, id, driverID uuid.UUID) error {
	return m.assignDriver(ctx, id, driverID)
}
func (m *mockTourRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.TourStatus) error {
	return m.updateStatus(ctx, id, from, to)
}
func (m *mockTourRepo) SetDistance(ctx context.Context, id uuid.UUID, km float64) error {
	return m.setDistance(ctx, id, km)
}

// compile-time check: mockTourRepo must satisfy repo.TourRepo.
var _ repo.TourRepo = (*mockTourRepo)(nil)

// mockDistance is a test double for service.DistanceEstimator.
type mockDistance struct {
	driveDistanceKm func(ctx context.Context, origin, destination string) (float64, error)
}

func (m *mockDistance) DriveDistanceKm(ctx context.Context, origin, destination string) (float64, error) {
	return m.driveDistanceKm(ctx, origin, destination)
}

var _ service.DistanceEstimator = (*mockDistance)(nil)

// ---- helpers ---------------------------------------------------------------

// testLogger discards output; services log distance and notifier failures.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func validTour() domain.Tour {
	from := time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC)
	return domain.Tour{
		TourNumber:  "T-2026-0042",
		VehicleType: domain.VehiclePKW,
		Plate:       "M-AB 1234",
		Pickup:      domain.Stop{Address: "Werkstraße 12, 80339 München", WindowFrom: &from},
		Dropoff:     domain.Stop{Address: "Hafenallee 3, 20457 Hamburg"},
	}
}

// ---- Create ----------------------------------------------------------------

func TestTourService_Create_PrefillsDistance(t *testing.T) {
	var created domain.Tour
	svc := service.NewTourService(
		&mockTourRepo{
			create: func(_ context.Context, tour domain.Tour) (domain.Tour, error) {
				created = tour
				tour.ID = uuid.New()
				return tour, nil
			},
		},
		&mockDistance{
			driveDistanceKm: func(_ context.Context, origin, destination string) (float64, error) {
				assert.Equal(t, "Werkstraße 12, 80339 München", origin)
				assert.Equal(t, "Hafenallee 3, 20457 Hamburg", destination)
				return 775, nil
			},
		},
		testLogger(),
	)

	got, warning, err := svc.Create(context.Background(), validTour())

	require.NoError(t, err)
	assert.Empty(t, warning)
	assert.Equal(t, float64(775), got.DistanceKm)
	assert.Equal(t, domain.TourNew, created.Status)
	assert.Nil(t, created.DriverID)
}

func TestTourService_Create_DistanceFailureReturnsWarning(t *testing.T) {
	svc := service.NewTourService(
		&mockTourRepo{
			create: func(_ context.Context, tour domain.Tour) (domain.Tour, error) { return tour, nil },
		},
		&mockDistance{
			driveDistanceKm: func(_ context.Context, _, _ string) (float64, error) {
				return 0, &maps.Error{Code: maps.CodeRequestDenied}
			},
		},
		testLogger(),
	)

	got, warning, err := svc.Create(context.Background(), validTour())

	require.NoError(t, err)
	assert.Zero(t, got.DistanceKm)
	assert.Equal(t, maps.CodeRequestDenied, warning)
}

func TestTourService_Create_UnclassifiedDistanceFailure(t *testing.T) {
	svc := service.NewTourService(
		&mockTourRepo{
			create: func(_ context.Context, tour domain.Tour) (domain.Tour, error) { return tour, nil },
		},
		&mockDistance{
			driveDistanceKm: func(_ context.Context, _, _ string) (float64, error) {
				return 0, errors.New("connection reset")
			},
		},
		testLogger(),
	)

	got, warning, err := svc.Create(context.Background(), validTour())

	require.NoError(t, err)
	assert.Zero(t, got.DistanceKm)
	assert.Equal(t, maps.CodeUnknown, warning)
}

func TestTourService_Create_ManualDistanceSkipsPrefill(t *testing.T) {
	svc := service.NewTourService(
		&mockTourRepo{
			create: func(_ context.Context, tour domain.Tour) (domain.Tour, error) { return tour, nil },
		},
		&mockDistance{
			driveDistanceKm: func(_ context.Context, _, _ string) (float64, error) {
				t.Fatal("estimator must not be called when a distance was supplied")
				return 0, nil
			},
		},
		testLogger(),
	)

	input := validTour()
	input.DistanceKm = 612

	got, warning, err := svc.Create(context.Background(), input)

	require.NoError(t, err)
	assert.Empty(t, warning)
	assert.Equal(t, float64(612), got.DistanceKm)
}

func TestTourService_Create_Validation(t *testing.T) {
	svc := service.NewTourService(&mockTourRepo{}, nil, testLogger())

	tests := []struct {
		name   string
		mutate func(*domain.Tour)
	}{
		{"missing tour number", func(tr *domain.Tour) { tr.TourNumber = "  " }},
		{"unknown vehicle type", func(tr *domain.Tour) { tr.VehicleType = "lkw" }},
		{"missing plate", func(tr *domain.Tour) { tr.Plate = "" }},
		{"missing pickup address", func(tr *domain.Tour) { tr.Pickup.Address = "" }},
		{"missing dropoff address", func(tr *domain.Tour) { tr.Dropoff.Address = "" }},
		{"negative distance", func(tr *domain.Tour) { tr.DistanceKm = -1 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			input := validTour()
			tc.mutate(&input)

			_, _, err := svc.Create(context.Background(), input)

			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

// ---- GetForDriver ----------------------------------------------------------

func TestTourService_GetForDriver_OK(t *testing.T) {
	driverID := uuid.New()
	tour := validTour()
	tour.ID = uuid.New()
	tour.DriverID = &driverID

	svc := service.NewTourService(&mockTourRepo{
		getByID: func(_ context.Context, id uuid.UUID) (domain.Tour, error) { return tour, nil },
	}, nil, testLogger())

	got, err := svc.GetForDriver(context.Background(), driverID, tour.ID)

	require.NoError(t, err)
	assert.Equal(t, tour.ID, got.ID)
}

func TestTourService_GetForDriver_ForeignTour(t *testing.T) {
	otherDriver := uuid.New()
	tour := validTour()
	tour.DriverID = &otherDriver

	svc := service.NewTourService(&mockTourRepo{
		getByID: func(_ context.Context, id uuid.UUID) (domain.Tour, error) { return tour, nil },
	}, nil, testLogger())

	_, err := svc.GetForDriver(context.Background(), uuid.New(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestTourService_GetForDriver_Unassigned(t *testing.T) {
	svc := service.NewTourService(&mockTourRepo{
		getByID: func(_ context.Context, id uuid.UUID) (domain.Tour, error) { return validTour(), nil },
	}, nil, testLogger())

	_, err := svc.GetForDriver(context.Background(), uuid.New(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// ---- AssignDriver ----------------------------------------------------------

func TestTourService_AssignDriver_Conflict(t *testing.T) {
	svc := service.NewTourService(&mockTourRepo{
		assignDriver: func(_ context.Context, _, _ uuid.UUID) error { return domain.ErrConflict },
	}, nil, testLogger())

	_, err := svc.AssignDriver(context.Background(), uuid.New(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrConflict)
}

// ---- List ------------------------------------------------------------------

func TestTourService_List_NeverNil(t *testing.T) {
	svc := service.NewTourService(&mockTourRepo{
		list: func(_ context.Context) ([]domain.Tour, error) { return nil, nil },
	}, nil, testLogger())

	got, err := svc.List(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
