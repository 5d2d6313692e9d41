package wizard_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jkaindl/fahrerportal/backend/internal/domain"
	"github.com/jkaindl/fahrerportal/backend/testutil"
	"github.com/jkaindl/fahrerportal/backend/internal/wizard"
)

func TestSessionStore_SaveGetRoundTrip(t *testing.T) {
	store := wizard.NewSessionStore(testutil.NewRedis(t), time.Minute)
	ctx := context.Background()

	session := newPickupSession(t, pkwTour())
	session.Apply(wizard.StepInput{Odometer: str("48211")})
	require.NoError(t, store.Save(ctx, session))

	got, err := store.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.ID, got.ID)
	assert.Equal(t, session.TourID, got.TourID)
	assert.Equal(t, session.DriverID, got.DriverID)
	assert.Equal(t, domain.PhasePickup, got.Phase)
	assert.Equal(t, session.Step, got.Step)
	assert.Equal(t, "48211", got.Form.Odometer)
}

func TestSessionStore_GetUnknownSession(t *testing.T) {
	store := wizard.NewSessionStore(testutil.NewRedis(t), time.Minute)

	_, err := store.Get(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSessionStore_Delete(t *testing.T) {
	store := wizard.NewSessionStore(testutil.NewRedis(t), time.Minute)
	ctx := context.Background()

	session := newPickupSession(t, pkwTour())
	require.NoError(t, store.Save(ctx, session))
	require.NoError(t, store.Delete(ctx, session.ID))

	_, err := store.Get(ctx, session.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Deleting an already-gone session is not an error.
	require.NoError(t, store.Delete(ctx, session.ID))
}

func TestSessionStore_AbandonedSessionExpires(t *testing.T) {
	store := wizard.NewSessionStore(testutil.NewRedis(t), 100*time.Millisecond)
	ctx := context.Background()

	session := newPickupSession(t, pkwTour())
	require.NoError(t, store.Save(ctx, session))

	time.Sleep(300 * time.Millisecond)

	_, err := store.Get(ctx, session.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
