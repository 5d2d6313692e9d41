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

func protocolFixture(tourID, driverID uuid.UUID) domain.TourProtocol {
	return domain.TourProtocol{
		TourID:             tourID,
		DriverID:           driverID,
		Phase:              domain.PhasePickup,
		OdometerKm:         48211,
		FuelLevel:          domain.FuelHalf,
		TireType:           domain.TiresSommer,
		Accessories:        domain.Accessories{Registration: true, SafetyKit: true},
		Hubcaps:            domain.HubcapsNotApplicable,
		RimMaterial:        domain.RimAlloy,
		Outcome:            domain.RecipientPresent,
		RecipientName:      "Hr. Sommer",
		RecipientSignature: "data:image/png;base64,c29tbWVy",
		DriverSignature:    "data:image/png;base64,ZmFocmVy",
		Photos: []domain.ProtocolPhoto{
			{Category: "front", ObjectKey: "protocols/t/front.jpg"},
			{Category: "heck", ObjectKey: "protocols/t/heck.jpg"},
		},
		Damages: []domain.ProtocolDamage{
			{Interior: false, DamageType: "Kratzer", Component: "Stoßstange vorne", Description: "Kratzer links", PhotoKeys: []string{"protocols/t/d0.jpg"}},
		},
		SubmittedAt: time.Now().UTC(),
	}
}

// newPickupOpenTour creates a tour already assigned to a driver, ready for
// the pickup protocol.
func newPickupOpenTour(t *testing.T, tours repo.TourRepo) (domain.Tour, uuid.UUID) {
	t.Helper()
	ctx := context.Background()

	created, err := tours.Create(ctx, tourFixture())
	require.NoError(t, err)

	driverID := uuid.New()
	require.NoError(t, tours.AssignDriver(ctx, created.ID, driverID))
	return created, driverID
}

func TestProtocolRepo_Submit(t *testing.T) {
	tx := newTestTx(t)
	tours := repo.NewTourRepo(tx)
	protocols := repo.NewProtocolRepo(tx)
	ctx := context.Background()

	tour, driverID := newPickupOpenTour(t, tours)

	stored, err := protocols.Submit(ctx, protocolFixture(tour.ID, driverID),
		domain.TourPickupOpen, domain.TourInTransit)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, stored.ID)
	require.Len(t, stored.Photos, 2)
	assert.Equal(t, stored.ID, stored.Photos[0].ProtocolID)
	require.Len(t, stored.Damages, 1)
	assert.Equal(t, []string{"protocols/t/d0.jpg"}, stored.Damages[0].PhotoKeys)

	// The same transaction advanced the tour status.
	got, err := tours.GetByID(ctx, tour.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TourInTransit, got.Status)
}

func TestProtocolRepo_Submit_DuplicatePhaseConflicts(t *testing.T) {
	tx := newTestTx(t)
	tours := repo.NewTourRepo(tx)
	protocols := repo.NewProtocolRepo(tx)
	ctx := context.Background()

	tour, driverID := newPickupOpenTour(t, tours)

	_, err := protocols.Submit(ctx, protocolFixture(tour.ID, driverID),
		domain.TourPickupOpen, domain.TourInTransit)
	require.NoError(t, err)

	// A second pickup protocol for the same tour is rejected and, because
	// the write is transactional, leaves the tour status untouched.
	_, err = protocols.Submit(ctx, protocolFixture(tour.ID, driverID),
		domain.TourInTransit, domain.TourDropoffOpen)
	assert.ErrorIs(t, err, domain.ErrConflict)

	got, err := tours.GetByID(ctx, tour.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TourInTransit, got.Status)
}

func TestProtocolRepo_Submit_StaleTourStatusRollsBack(t *testing.T) {
	tx := newTestTx(t)
	tours := repo.NewTourRepo(tx)
	protocols := repo.NewProtocolRepo(tx)
	ctx := context.Background()

	tour, driverID := newPickupOpenTour(t, tours)

	// Wrong expected status: the guard fails, and the protocol insert that
	// happened earlier in the transaction must be rolled back with it.
	_, err := protocols.Submit(ctx, protocolFixture(tour.ID, driverID),
		domain.TourDropoffOpen, domain.TourCompleted)
	require.ErrorIs(t, err, domain.ErrConflict)

	_, err = protocols.GetByTourAndPhase(ctx, tour.ID, domain.PhasePickup)
	assert.ErrorIs(t, err, domain.ErrNotFound, "no partial protocol may survive a failed submission")
}

func TestProtocolRepo_GetByTourAndPhase(t *testing.T) {
	tx := newTestTx(t)
	tours := repo.NewTourRepo(tx)
	protocols := repo.NewProtocolRepo(tx)
	ctx := context.Background()

	tour, driverID := newPickupOpenTour(t, tours)

	_, err := protocols.Submit(ctx, protocolFixture(tour.ID, driverID),
		domain.TourPickupOpen, domain.TourInTransit)
	require.NoError(t, err)

	got, err := protocols.GetByTourAndPhase(ctx, tour.ID, domain.PhasePickup)
	require.NoError(t, err)
	assert.Equal(t, 48211, got.OdometerKm)
	assert.Len(t, got.Photos, 2)
	assert.Len(t, got.Damages, 1)

	_, err = protocols.GetByTourAndPhase(ctx, tour.ID, domain.PhaseDropoff)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
