// Package handler implements the HTTP handlers for the Fahrerportal API.
// All handlers are methods on Server; methods are split into domain-specific
// files (tour.go, workrecord.go, etc.) but share the same Server struct so
// they can access its dependencies.
package handler

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jkaindl/fahrerportal/backend/internal/domain"
	"github.com/jkaindl/fahrerportal/backend/internal/wizard"
)

// TourServicer defines the business operations the tour handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type TourServicer interface {
	Create(ctx context.Context, tour domain.Tour) (created domain.Tour, distanceWarning string, err error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Tour, error)
	GetForDriver(ctx context.Context, driverID, tourID uuid.UUID) (domain.Tour, error)
	List(ctx context.Context) ([]domain.Tour, error)
	ListByDriver(ctx context.Context, driverID uuid.UUID) ([]domain.Tour, error)
	AssignDriver(ctx context.Context, tourID, driverID uuid.UUID) (domain.Tour, error)
	SetDistance(ctx context.Context, tourID uuid.UUID, km float64) error
}

// WorkRecordServicer defines the work-record operations used by handlers.
type WorkRecordServicer interface {
	Submit(ctx context.Context, driverID uuid.UUID, rec domain.WorkRecord) (domain.WorkRecord, error)
	GetForDriver(ctx context.Context, driverID, recordID uuid.UUID) (domain.WorkRecord, error)
	ListForDriver(ctx context.Context, driverID uuid.UUID, params domain.PaginationParams) ([]domain.WorkRecord, int64, error)
	ListPending(ctx context.Context) ([]domain.WorkRecord, error)
	SetStatus(ctx context.Context, recordID uuid.UUID, to domain.WorkStatus, force bool) (domain.WorkRecord, error)
}

// ExpenseServicer defines the expense-record operations used by handlers.
type ExpenseServicer interface {
	Submit(ctx context.Context, driverID uuid.UUID, rec domain.ExpenseRecord) (domain.ExpenseRecord, error)
	GetForDriver(ctx context.Context, driverID, recordID uuid.UUID) (domain.ExpenseRecord, error)
	ListForDriver(ctx context.Context, driverID uuid.UUID, params domain.PaginationParams) ([]domain.ExpenseRecord, int64, error)
	ListPending(ctx context.Context) ([]domain.ExpenseRecord, error)
	SetStatus(ctx context.Context, recordID uuid.UUID, to domain.ExpenseStatus, force bool) (domain.ExpenseRecord, error)
}

// StatementServicer defines the monthly-statement operations used by handlers.
type StatementServicer interface {
	Monthly(ctx context.Context, driverID uuid.UUID, month time.Time) (domain.Statement, error)
	SetSurplusOverride(ctx context.Context, rec domain.MonthlySurplus) (domain.MonthlySurplus, error)
	ClearSurplusOverride(ctx context.Context, driverID uuid.UUID, month time.Time) error
}

// ProtocolServicer defines the wizard and protocol operations used by handlers.
type ProtocolServicer interface {
	Start(ctx context.Context, tourID, driverID uuid.UUID, phase domain.ProtocolPhase) (*wizard.Session, error)
	Get(ctx context.Context, sessionID, driverID uuid.UUID) (*wizard.Session, error)
	Apply(ctx context.Context, sessionID, driverID uuid.UUID, in wizard.StepInput) (*wizard.Session, error)
	Next(ctx context.Context, sessionID, driverID uuid.UUID) (*wizard.Session, wizard.Result, error)
	Prev(ctx context.Context, sessionID, driverID uuid.UUID) (*wizard.Session, bool, error)
	Submit(ctx context.Context, sessionID, driverID uuid.UUID) (domain.TourProtocol, error)
	GetProtocol(ctx context.Context, tourID uuid.UUID, phase domain.ProtocolPhase) (domain.TourProtocol, error)
}

// FileStorer exchanges object keys for short-lived presigned URLs. A nil
// FileStorer disables the upload endpoints (the rest of the API keeps
// working; records then carry keys provided out of band).
type FileStorer interface {
	PresignedPutURL(ctx context.Context, key string, expiry time.Duration) (string, error)
	PresignedGetURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// Server holds the handler dependencies for all API endpoints.
type Server struct {
	tours      TourServicer
	records    WorkRecordServicer
	expenses   ExpenseServicer
	statements StatementServicer
	protocols  ProtocolServicer
	files      FileStorer
	logger     *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
func NewServer(tours TourServicer, records WorkRecordServicer, expenses ExpenseServicer, statements StatementServicer, protocols ProtocolServicer, files FileStorer, logger *slog.Logger) *Server {
	return &Server{
		tours:      tours,
		records:    records,
		expenses:   expenses,
		statements: statements,
		protocols:  protocols,
		files:      files,
		logger:     logger,
	}
}
