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

// ExpenseRepo defines the persistence operations for expense records
// ("Auslagennachweise").
type ExpenseRepo interface {
	// Create inserts a new record in status pending.
	Create(ctx context.Context, rec domain.ExpenseRecord) (domain.ExpenseRecord, error)

	// GetByID retrieves a single record.
	// Returns domain.ErrNotFound if no record with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.ExpenseRecord, error)

	// ListByDriverPaged returns one driver's records, newest first, plus the
	// total count for pagination.
	ListByDriverPaged(ctx context.Context, driverID uuid.UUID, params domain.PaginationParams) ([]domain.ExpenseRecord, int64, error)

	// ListByDriverMonth returns a driver's records dated within the given
	// month, ordered by date ascending.
	ListByDriverMonth(ctx context.Context, driverID uuid.UUID, month time.Time) ([]domain.ExpenseRecord, error)

	// ListByStatus returns all records in the given status, oldest first.
	ListByStatus(ctx context.Context, status domain.ExpenseStatus) ([]domain.ExpenseRecord, error)

	// UpdateStatus sets a record's approval status.
	// Returns domain.ErrNotFound if the record does not exist.
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ExpenseStatus) error
}

// pgExpenseRepo is the Postgres implementation of ExpenseRepo.
type pgExpenseRepo struct {
	db db
}

// NewExpenseRepo constructs an ExpenseRepo backed by the provided db connection.
func NewExpenseRepo(db db) ExpenseRepo {
	return &pgExpenseRepo{db: db}
}

const expenseColumns = `
	id, driver_id, tour_number, plate, date, route_from, route_to, category, amount_cents, proof_key, status, created_at, updated_at`

func (r *pgExpenseRepo) Create(ctx context.Context, rec domain.ExpenseRecord) (domain.ExpenseRecord, error) {
	const q = `
		INSERT INTO expense_records (driver_id, tour_number, plate, date, route_from, route_to, category, amount_cents, proof_key, status)
		VALUES (@driver_id, @tour_number, @plate, @date, @route_from, @route_to, @category, @amount_cents, @proof_key, @status)
		RETURNING` + expenseColumns

	args := pgx.NamedArgs{
		"driver_id":    rec.DriverID,
		"tour_number":  rec.TourNumber,
		"plate":        rec.Plate,
		"date":         rec.Date,
		"route_from":   rec.RouteFrom,
		"route_to":     rec.RouteTo,
		"category":     rec.Category,
		"amount_cents": rec.AmountCents,
		"proof_key":    rec.ProofKey,
		"status":       rec.Status,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanExpense(row)
	if err != nil {
		return domain.ExpenseRecord{}, fmt.Errorf("repo.ExpenseRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgExpenseRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.ExpenseRecord, error) {
	q := `SELECT` + expenseColumns + ` FROM expense_records WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanExpense(row)
	if err != nil {
		return domain.ExpenseRecord{}, fmt.Errorf("repo.ExpenseRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgExpenseRepo) ListByDriverPaged(ctx context.Context, driverID uuid.UUID, params domain.PaginationParams) ([]domain.ExpenseRecord, int64, error) {
	const countQ = `SELECT count(*) FROM expense_records WHERE driver_id = @driver_id`

	var total int64
	if err := r.db.QueryRow(ctx, countQ, pgx.NamedArgs{"driver_id": driverID}).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.ExpenseRepo.ListByDriverPaged: count: %w", err)
	}

	q := `SELECT` + expenseColumns + `
		FROM expense_records
		WHERE driver_id = @driver_id
		ORDER BY date DESC, created_at DESC
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{
		"driver_id": driverID,
		"limit":     params.Limit,
		"offset":    params.Offset(),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.ExpenseRepo.ListByDriverPaged: %w", err)
	}
	defer rows.Close()

	records, err := collectExpenses(rows, "repo.ExpenseRepo.ListByDriverPaged")
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

func (r *pgExpenseRepo) ListByDriverMonth(ctx context.Context, driverID uuid.UUID, month time.Time) ([]domain.ExpenseRecord, error) {
	month = domain.NormalizeMonth(month)

	q := `SELECT` + expenseColumns + `
		FROM expense_records
		WHERE driver_id = @driver_id AND date >= @from AND date < @to
		ORDER BY date ASC, created_at ASC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{
		"driver_id": driverID,
		"from":      month,
		"to":        month.AddDate(0, 1, 0),
	})
	if err != nil {
		return nil, fmt.Errorf("repo.ExpenseRepo.ListByDriverMonth: %w", err)
	}
	defer rows.Close()

	return collectExpenses(rows, "repo.ExpenseRepo.ListByDriverMonth")
}

func (r *pgExpenseRepo) ListByStatus(ctx context.Context, status domain.ExpenseStatus) ([]domain.ExpenseRecord, error) {
	q := `SELECT` + expenseColumns + `
		FROM expense_records
		WHERE status = @status
		ORDER BY created_at ASC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"status": status})
	if err != nil {
		return nil, fmt.Errorf("repo.ExpenseRepo.ListByStatus: %w", err)
	}
	defer rows.Close()

	return collectExpenses(rows, "repo.ExpenseRepo.ListByStatus")
}

func (r *pgExpenseRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ExpenseStatus) error {
	const q = `UPDATE expense_records SET status = @status, updated_at = now() WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id, "status": status})
	if err != nil {
		return fmt.Errorf("repo.ExpenseRepo.UpdateStatus: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.ExpenseRepo.UpdateStatus: %w", domain.ErrNotFound)
	}
	return nil
}

func collectExpenses(rows pgx.Rows, op string) ([]domain.ExpenseRecord, error) {
	var records []domain.ExpenseRecord
	for rows.Next() {
		rec, err := scanExpense(rows)
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

func scanExpense(s scanner) (domain.ExpenseRecord, error) {
	var (
		rec      domain.ExpenseRecord
		id       pgtype.UUID
		driverID pgtype.UUID
		date     pgtype.Date
	)

	err := s.Scan(&id, &driverID, &rec.TourNumber, &rec.Plate, &date, &rec.RouteFrom, &rec.RouteTo,
		&rec.Category, &rec.AmountCents, &rec.ProofKey, &rec.Status, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ExpenseRecord{}, domain.ErrNotFound
		}
		return domain.ExpenseRecord{}, err
	}

	rec.ID = uuid.UUID(id.Bytes)
	rec.DriverID = uuid.UUID(driverID.Bytes)
	rec.Date = date.Time

	return rec, nil
}
