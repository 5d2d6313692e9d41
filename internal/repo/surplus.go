package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/jkaindl/fahrerportal/backend/internal/domain"
)

// SurplusRepo defines the persistence operations for monthly surplus
// overrides. At most one row exists per (driver, month).
type SurplusRepo interface {
	// Upsert inserts or replaces the override for (rec.DriverID, rec.Month).
	Upsert(ctx context.Context, rec domain.MonthlySurplus) (domain.MonthlySurplus, error)

	// Get retrieves the override for (driverID, month).
	// Returns domain.ErrNotFound when no override exists — callers fall back
	// to the computed surplus in that case.
	Get(ctx context.Context, driverID uuid.UUID, month time.Time) (domain.MonthlySurplus, error)

	// Delete removes the override for (driverID, month).
	// Returns domain.ErrNotFound if none exists.
	Delete(ctx context.Context, driverID uuid.UUID, month time.Time) error
}

// pgSurplusRepo is the Postgres implementation of SurplusRepo.
type pgSurplusRepo struct {
	db db
}

// NewSurplusRepo constructs a SurplusRepo backed by the provided db connection.
func NewSurplusRepo(db db) SurplusRepo {
	return &pgSurplusRepo{db: db}
}

const surplusColumns = `id, driver_id, month, amount_cents, note, created_at, updated_at`

func (r *pgSurplusRepo) Upsert(ctx context.Context, rec domain.MonthlySurplus) (domain.MonthlySurplus, error) {
	const q = `
		INSERT INTO monthly_surpluses (driver_id, month, amount_cents, note)
		VALUES (@driver_id, @month, @amount_cents, @note)
		ON CONFLICT (driver_id, month)
		DO UPDATE SET amount_cents = excluded.amount_cents, note = excluded.note, updated_at = now()
		RETURNING ` + surplusColumns

	args := pgx.NamedArgs{
		"driver_id":    rec.DriverID,
		"month":        domain.NormalizeMonth(rec.Month),
		"amount_cents": rec.AmountCents,
		"note":         rec.Note,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanSurplus(row)
	if err != nil {
		return domain.MonthlySurplus{}, fmt.Errorf("repo.SurplusRepo.Upsert: %w", err)
	}
	return result, nil
}

func (r *pgSurplusRepo) Get(ctx context.Context, driverID uuid.UUID, month time.Time) (domain.MonthlySurplus, error) {
	const q = `
		SELECT ` + surplusColumns + `
		FROM monthly_surpluses
		WHERE driver_id = @driver_id AND month = @month`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{
		"driver_id": driverID,
		"month":     domain.NormalizeMonth(month),
	})
	result, err := scanSurplus(row)
	if err != nil {
		return domain.MonthlySurplus{}, fmt.Errorf("repo.SurplusRepo.Get: %w", err)
	}
	return result, nil
}

func (r *pgSurplusRepo) Delete(ctx context.Context, driverID uuid.UUID, month time.Time) error {
	const q = `DELETE FROM monthly_surpluses WHERE driver_id = @driver_id AND month = @month`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{
		"driver_id": driverID,
		"month":     domain.NormalizeMonth(month),
	})
	if err != nil {
		return fmt.Errorf("repo.SurplusRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.SurplusRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func scanSurplus(s scanner) (domain.MonthlySurplus, error) {
	var (
		rec      domain.MonthlySurplus
		id       pgtype.UUID
		driverID pgtype.UUID
		month    pgtype.Date
	)

	err := s.Scan(&id, &driverID, &month, &rec.AmountCents, &rec.Note, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.MonthlySurplus{}, domain.ErrNotFound
		}
		return domain.MonthlySurplus{}, err
	}

	rec.ID = uuid.UUID(id.Bytes)
	rec.DriverID = uuid.UUID(driverID.Bytes)
	rec.Month = month.Time

	return rec, nil
}
