package handler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jkaindl/fahrerportal/backend/internal/domain"
	"github.com/jkaindl/fahrerportal/backend/internal/handler"
)

// mockWorkRecordServicer is a test double for handler.WorkRecordServicer.
type mockWorkRecordServicer struct {
	submit        func(ctx context.Context, driverID uuid.UUID, rec domain.WorkRecord) (domain.WorkRecord, error)
	getForDriver  func(ctx context.Context, driverID, recordID uuid.UUID) (domain.WorkRecord, error)
	listForDriver func(ctx context.Context, driverID uuid.UUID, p domain.PaginationParams) ([]domain.WorkRecord, int64, error)
	listPending   func(ctx context.Context) ([]domain.WorkRecord, error)
	setStatus     func(ctx context.Context, recordID uuid.UUID, to domain.WorkStatus, force bool) (domain.WorkRecord, error)
}

func (m *mockWorkRecordServicer) Submit(ctx context.Context, driverID uuid.UUID, rec domain.WorkRecord) (domain.WorkRecord, error) {
	return m.submit(ctx, driverID, rec)
}
func (m *mockWorkRecordServicer) GetForDriver(ctx context.Context, driverID, recordID uuid.UUID) (domain.WorkRecord, error) {
	return m.getForDriver(ctx, driverID, recordID)
}
func (m *mockWorkRecordServicer) ListForDriver(ctx context.Context, driverID uuid.UUID, p domain.PaginationParams) ([]domain.WorkRecord, int64, error) {
	return m.listForDriver(ctx, driverID, p)
}
func (m *mockWorkRecordServicer) ListPending(ctx context.Context) ([]domain.WorkRecord, error) {
	return m.listPending(ctx)
}
func (m *mockWorkRecordServicer) SetStatus(ctx context.Context, recordID uuid.UUID, to domain.WorkStatus, force bool) (domain.WorkRecord, error) {
	return m.setStatus(ctx, recordID, to, force)
}

var _ handler.WorkRecordServicer = (*mockWorkRecordServicer)(nil)

func newWorkRecordServer(svc handler.WorkRecordServicer) *handler.Server {
	return handler.NewServer(nil, svc, nil, nil, nil, nil, noopLogger())
}

func workRecordFixture(driverID uuid.UUID) domain.WorkRecord {
	return domain.WorkRecord{
		ID:         uuid.New(),
		DriverID:   driverID,
		TourNumber: "T-2026-0815",
		Date:       time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC),
		DrivenKm:   180,
		Waiting:    domain.Waiting30to60,
		Status:     domain.WorkPending,
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}
}

// ---- POST /api/v1/my/work-records ------------------------------------------

func TestSubmitWorkRecord_201(t *testing.T) {
	driverID := uuid.New()
	fixture := workRecordFixture(driverID)

	var gotDriver uuid.UUID
	var gotRec domain.WorkRecord
	svc := &mockWorkRecordServicer{
		submit: func(_ context.Context, id uuid.UUID, rec domain.WorkRecord) (domain.WorkRecord, error) {
			gotDriver, gotRec = id, rec
			return fixture, nil
		},
	}

	body := jsonBody(t, map[string]any{
		"tour_number": fixture.TourNumber,
		"date":        fixture.Date.Format(time.RFC3339),
		"driven_km":   fixture.DrivenKm,
		"waiting":     "30-60",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/my/work-records", body)
	req.Header.Set("Content-Type", "application/json")

	rec := serveAs(newWorkRecordServer(svc), asDriver(driverID), req)

	require.Equal(t, http.StatusCreated, rec.Code)
	// The driver comes from the token, never from the payload.
	assert.Equal(t, driverID, gotDriver)
	assert.Equal(t, fixture.TourNumber, gotRec.TourNumber)
	assert.Equal(t, 180.0, gotRec.DrivenKm)
}

func TestSubmitWorkRecord_422(t *testing.T) {
	svc := &mockWorkRecordServicer{
		submit: func(_ context.Context, _ uuid.UUID, _ domain.WorkRecord) (domain.WorkRecord, error) {
			return domain.WorkRecord{}, fmt.Errorf("%w: driven_km must be positive", domain.ErrValidation)
		},
	}

	body := jsonBody(t, map[string]any{"tour_number": "T-1", "driven_km": -5})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/my/work-records", body)
	req.Header.Set("Content-Type", "application/json")

	rec := serveAs(newWorkRecordServer(svc), asDriver(uuid.New()), req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp errBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "driven_km must be positive", resp.Error.Message)
}

// ---- GET /api/v1/my/work-records -------------------------------------------

func TestListMyWorkRecords_200_Paged(t *testing.T) {
	driverID := uuid.New()
	var gotParams domain.PaginationParams
	svc := &mockWorkRecordServicer{
		listForDriver: func(_ context.Context, _ uuid.UUID, p domain.PaginationParams) ([]domain.WorkRecord, int64, error) {
			gotParams = p
			return []domain.WorkRecord{workRecordFixture(driverID)}, 42, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/my/work-records?page=3&limit=5", nil)
	rec := serveAs(newWorkRecordServer(svc), asDriver(driverID), req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3, gotParams.Page)
	assert.Equal(t, 5, gotParams.Limit)

	var resp struct {
		Data       []domain.WorkRecord `json:"data"`
		Pagination struct {
			Page  int   `json:"page"`
			Limit int   `json:"limit"`
			Total int64 `json:"total"`
		} `json:"pagination"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Len(t, resp.Data, 1)
	assert.Equal(t, 3, resp.Pagination.Page)
	assert.Equal(t, int64(42), resp.Pagination.Total)
}

// ---- GET /api/v1/my/work-records/{recordID} --------------------------------

func TestGetMyWorkRecord_404(t *testing.T) {
	svc := &mockWorkRecordServicer{
		getForDriver: func(_ context.Context, _, _ uuid.UUID) (domain.WorkRecord, error) {
			return domain.WorkRecord{}, domain.ErrNotFound
		},
	}

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/my/work-records/%s", uuid.New()), nil)
	rec := serveAs(newWorkRecordServer(svc), asDriver(uuid.New()), req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// ---- GET /api/v1/work-records/pending --------------------------------------

func TestListPendingWorkRecords_200(t *testing.T) {
	svc := &mockWorkRecordServicer{
		listPending: func(_ context.Context) ([]domain.WorkRecord, error) {
			return []domain.WorkRecord{workRecordFixture(uuid.New())}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/work-records/pending", nil)
	rec := serveAs(newWorkRecordServer(svc), asAdmin(), req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []domain.WorkRecord `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Len(t, resp.Data, 1)
}

func TestListPendingWorkRecords_403_AsDriver(t *testing.T) {
	svc := &mockWorkRecordServicer{}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/work-records/pending", nil)
	rec := serveAs(newWorkRecordServer(svc), asDriver(uuid.New()), req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

// ---- PUT /api/v1/work-records/{recordID}/status ----------------------------

func TestSetWorkRecordStatus_200(t *testing.T) {
	fixture := workRecordFixture(uuid.New())
	fixture.Status = domain.WorkApproved

	var gotStatus domain.WorkStatus
	var gotForce bool
	svc := &mockWorkRecordServicer{
		setStatus: func(_ context.Context, _ uuid.UUID, to domain.WorkStatus, force bool) (domain.WorkRecord, error) {
			gotStatus, gotForce = to, force
			return fixture, nil
		},
	}

	body := jsonBody(t, map[string]any{"status": "approved", "force": true})
	req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/api/v1/work-records/%s/status", fixture.ID), body)
	req.Header.Set("Content-Type", "application/json")

	rec := serveAs(newWorkRecordServer(svc), asAdmin(), req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.WorkApproved, gotStatus)
	assert.True(t, gotForce)
}

func TestSetWorkRecordStatus_409_InvalidTransition(t *testing.T) {
	svc := &mockWorkRecordServicer{
		setStatus: func(_ context.Context, _ uuid.UUID, _ domain.WorkStatus, _ bool) (domain.WorkRecord, error) {
			return domain.WorkRecord{}, fmt.Errorf("record is billed: %w", domain.ErrConflict)
		},
	}

	body := jsonBody(t, map[string]any{"status": "rejected"})
	req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/api/v1/work-records/%s/status", uuid.New()), body)
	req.Header.Set("Content-Type", "application/json")

	rec := serveAs(newWorkRecordServer(svc), asAdmin(), req)

	require.Equal(t, http.StatusConflict, rec.Code)

	var resp errBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "conflict", resp.Error.Code)
}
