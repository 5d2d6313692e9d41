package service

import (
	"context"

	"github.com/jkaindl/fahrerportal/backend/internal/domain"
)

// Notifier sends operator notifications for events that need a human
// follow-up. Services treat notification failures as non-fatal: the
// triggering operation has already been persisted when the notifier runs.
type Notifier interface {
	// WorkRecordSubmitted announces a new pending work record.
	WorkRecordSubmitted(ctx context.Context, rec domain.WorkRecord) error

	// WorkRecordDecided informs the driver about an approval decision.
	WorkRecordDecided(ctx context.Context, rec domain.WorkRecord) error

	// ExpenseSubmitted announces a new pending expense record.
	ExpenseSubmitted(ctx context.Context, rec domain.ExpenseRecord) error

	// ExpenseDecided informs the driver about an approval decision.
	ExpenseDecided(ctx context.Context, rec domain.ExpenseRecord) error

	// ProtocolSubmitted announces a completed handover protocol.
	// newDamages is the count of damages declared in this protocol.
	ProtocolSubmitted(ctx context.Context, p domain.TourProtocol, newDamages int) error
}
