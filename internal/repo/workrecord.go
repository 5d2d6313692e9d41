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

// WorkRecordRepo defines the persistence operations for work records
// ("Arbeitsnachweise").
type WorkRecordRepo interface {
	// Create inserts a new record in status pending.
	Create(ctx context.Context, rec domain.WorkRecord) (domain.WorkRecord, error)

	// GetByID retrieves a single record.
	// Returns domain.ErrNotFound if no record with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.WorkRecord, error)

	// ListByDriverPaged returns one driver's records, newest first, plus the
	// total count for pagination.
	ListByDriverPaged(ctx context.Context, driverID uuid.UUID, params domain.PaginationParams) ([]domain.WorkRecord, int64, error)

	// ListByDriverMonth returns all of a driver's records dated within the
	// given month (normalized to its first day), ordered by date ascending.
	// This is the snapshot the payout aggregator runs on.
	ListByDriverMonth(ctx context.Context, driverID uuid.UUID, month time.Time) ([]domain.WorkRecord, error)

	// ListByStatus returns all records in the given approval status, oldest
	// first — the admin review queue.
	ListByStatus(ctx context.Context, status domain.WorkStatus) ([]domain.WorkRecord, error)

	// UpdateStatus sets a record's approval status.
	// Returns domain.ErrNotFound if the record does not exist.
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.WorkStatus) error
}

// pgWorkRecordRepo is the Postgres implementation of WorkRecordRepo.
type pgWorkRecordRepo struct {
	db db
}

// NewWorkRecordRepo constructs a WorkRecordRepo backed by the provided db
// connection.
func NewWorkRecordRepo(db db) WorkRecordRepo {
	return &pgWorkRecordRepo{db: db}
}

const workRecordColumns = `
	id, driver_id, tour_number, date, driven_km, waiting, proof_key, status, ist_ruecklaufer, created_at, updated_at`

func (r *pgWorkRecordRepo) Create(ctx context.Context, rec domain.WorkRecord) (domain.WorkRecord, error) {
	const q = `
		INSERT INTO work_records (driver_id, tour_number, date, driven_km, waiting, proof_key, status, ist_ruecklaufer)
		VALUES (@driver_id, @tour_number, @date, @driven_km, @waiting, @proof_key, @status, @ist_ruecklaufer)
		RETURNING` + workRecordColumns

	args := pgx.NamedArgs{
		"driver_id":       rec.DriverID,
		"tour_number":     rec.TourNumber,
		"date":            rec.Date,
		"driven_km":       rec.DrivenKm,
		"waiting":         rec.Waiting,
		"proof_key":       rec.ProofKey,
		"status":          rec.Status,
		"ist_ruecklaufer": rec.IstRuecklaufer,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanWorkRecord(row)
	if err != nil {
		return domain.WorkRecord{}, fmt.Errorf("repo.WorkRecordRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgWorkRecordRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.WorkRecord, error) {
	q := `SELECT` + workRecordColumns + ` FROM work_records WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanWorkRecord(row)
	if err != nil {
		return domain.WorkRecord{}, fmt.Errorf("repo.WorkRecordRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgWorkRecordRepo) ListByDriverPaged(ctx context.Context, driverID uuid.UUID, params domain.PaginationParams) ([]domain.WorkRecord, int64, error) {
	const countQ = `SELECT count(*) FROM work_records WHERE driver_id = @driver_id`

	var total int64
	if err := r.db.QueryRow(ctx, countQ, pgx.NamedArgs{"driver_id": driverID}).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.WorkRecordRepo.ListByDriverPaged: count: %w", err)
	}

	q := `SELECT` + workRecordColumns + `
		FROM work_records
		WHERE driver_id = @driver_id
		ORDER BY date DESC, created_at DESC
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{
		"driver_id": driverID,
		"limit":     params.Limit,
		"offset":    params.Offset(),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.WorkRecordRepo.ListByDriverPaged: %w", err)
	}
	defer rows.Close()

	records, err := collectWorkRecords(rows, "repo.WorkRecordRepo.ListByDriverPaged")
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

func (r *pgWorkRecordRepo) ListByDriverMonth(ctx context.Context, driverID uuid.UUID, month time.Time) ([]domain.WorkRecord, error) {
	month = domain.NormalizeMonth(month)

	q := `SELECT` + workRecordColumns + `
		FROM work_records
		WHERE driver_id = @driver_id AND date >= @from AND date < @to
		ORDER BY date ASC, created_at ASC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{
		"driver_id": driverID,
		"from":      month,
		"to":        month.AddDate(0, 1, 0),
	})
	if err != nil {
		return nil, fmt.Errorf("repo.WorkRecordRepo.ListByDriverMonth: %w", err)
	}
	defer rows.Close()

	return collectWorkRecords(rows, "repo.WorkRecordRepo.ListByDriverMonth")
}

func (r *pgWorkRecordRepo) ListByStatus(ctx context.Context, status domain.WorkStatus) ([]domain.WorkRecord, error) {
	q := `SELECT` + workRecordColumns + `
		FROM work_records
		WHERE status = @status
		ORDER BY created_at ASC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"status": status})
	if err != nil {
		return nil, fmt.Errorf("repo.WorkRecordRepo.ListByStatus: %w", err)
	}
	defer rows.Close()

	return collectWorkRecords(rows, "repo.WorkRecordRepo.ListByStatus")
}

func (r *pgWorkRecordRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.WorkStatus) error {
	const q = `UPDATE work_records SET status = @status, updated_at = now() WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id, "status": status})
	if err != nil {
		return fmt.Errorf("repo.WorkRecordRepo.UpdateStatus: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.WorkRecordRepo.UpdateStatus: %w", domain.ErrNotFound)
	}
	return nil
}

func collectWorkRecords(rows pgx.Rows, op string) ([]domain.WorkRecord, error) {
	var records []domain.WorkRecord
	for rows.Next() {
		rec, err := scanWorkRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}
	return records, nil
}

func scanWorkRecord(s scanner) (domain.WorkRecord, error) {
	var (
		rec      domain.WorkRecord
		id       pgtype.UUID
		driverID pgtype.UUID
		date     pgtype.Date
	)

	err := s.Scan(&id, &driverID, &rec.TourNumber, &date, &rec.DrivenKm, &rec.Waiting,
		&rec.ProofKey, &rec.Status, &rec.IstRuecklaufer, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.WorkRecord{}, domain.ErrNotFound
		}
		return domain.WorkRecord{}, err
	}

	rec.ID = uuid.UUID(id.Bytes)
	rec.DriverID = uuid.UUID(driverID.Bytes)
	rec.Date = date.Time

	return rec, nil
}
