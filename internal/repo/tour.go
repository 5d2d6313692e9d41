package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/jkaindl/fahrerportal/backend/internal/domain"
)

// TourRepo defines the persistence operations for Tours.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the service to be unit-tested with a mock.
type TourRepo interface {
	// Create inserts a new tour and returns the persisted record (with
	// DB-generated id, created_at, and updated_at populated).
	Create(ctx context.Context, tour domain.Tour) (domain.Tour, error)

	// GetByID retrieves a single tour by its UUID primary key.
	// Returns domain.ErrNotFound if no tour with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Tour, error)

	// List returns all tours ordered by creation time descending.
	List(ctx context.Context) ([]domain.Tour, error)

	// ListByDriver returns the tours assigned to one driver, newest first.
	ListByDriver(ctx context.Context, driverID uuid.UUID) ([]domain.Tour, error)

	// AssignDriver sets the driver and moves the tour to pickup_open.
	// Returns domain.ErrConflict when the tour is not in status new.
	AssignDriver(ctx context.Context, id, driverID uuid.UUID) error

	// UpdateStatus moves a tour from one status to another with a
	// compare-and-set guard. Returns domain.ErrConflict when the tour is no
	// longer in the expected from status.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.TourStatus) error

	// SetDistance records or corrects the planned driving distance.
	SetDistance(ctx context.Context, id uuid.UUID, km float64) error
}

// pgTourRepo is the Postgres implementation of TourRepo.
type pgTourRepo struct {
	db db
}

// NewTourRepo constructs a TourRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTourRepo(db db) TourRepo {
	return &pgTourRepo{db: db}
}

const tourColumns = `
	id, tour_number, vehicle_type, plate, vin,
	pickup_address, pickup_contact_name, pickup_contact_phone, pickup_window_from, pickup_window_to,
	dropoff_address, dropoff_contact_name, dropoff_contact_phone, dropoff_window_from, dropoff_window_to,
	distance_km, driver_id, status, created_at, updated_at`

func (r *pgTourRepo) Create(ctx context.Context, tour domain.Tour) (domain.Tour, error) {
	const q = `
		INSERT INTO tours (
			tour_number, vehicle_type, plate, vin,
			pickup_address, pickup_contact_name, pickup_contact_phone, pickup_window_from, pickup_window_to,
			dropoff_address, dropoff_contact_name, dropoff_contact_phone, dropoff_window_from, dropoff_window_to,
			distance_km, driver_id, status
		)
		VALUES (
			@tour_number, @vehicle_type, @plate, @vin,
			@pickup_address, @pickup_contact_name, @pickup_contact_phone, @pickup_window_from, @pickup_window_to,
			@dropoff_address, @dropoff_contact_name, @dropoff_contact_phone, @dropoff_window_from, @dropoff_window_to,
			@distance_km, @driver_id, @status
		)
		RETURNING` + tourColumns

	args := pgx.NamedArgs{
		"tour_number":           tour.TourNumber,
		"vehicle_type":          tour.VehicleType,
		"plate":                 tour.Plate,
		"vin":                   tour.VIN,
		"pickup_address":        tour.Pickup.Address,
		"pickup_contact_name":   tour.Pickup.ContactName,
		"pickup_contact_phone":  tour.Pickup.ContactPhone,
		"pickup_window_from":    tour.Pickup.WindowFrom,
		"pickup_window_to":      tour.Pickup.WindowTo,
		"dropoff_address":       tour.Dropoff.Address,
		"dropoff_contact_name":  tour.Dropoff.ContactName,
		"dropoff_contact_phone": tour.Dropoff.ContactPhone,
		"dropoff_window_from":   tour.Dropoff.WindowFrom,
		"dropoff_window_to":     tour.Dropoff.WindowTo,
		"distance_km":           tour.DistanceKm,
		"driver_id":             tour.DriverID, // nil becomes NULL
		"status":                tour.Status,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanTour(row)
	if err != nil {
		return domain.Tour{}, fmt.Errorf("repo.TourRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgTourRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Tour, error) {
	q := `SELECT` + tourColumns + ` FROM tours WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanTour(row)
	if err != nil {
		return domain.Tour{}, fmt.Errorf("repo.TourRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgTourRepo) List(ctx context.Context) ([]domain.Tour, error) {
	q := `SELECT` + tourColumns + ` FROM tours ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.TourRepo.List: %w", err)
	}
	defer rows.Close()

	return collectTours(rows, "repo.TourRepo.List")
}

func (r *pgTourRepo) ListByDriver(ctx context.Context, driverID uuid.UUID) ([]domain.Tour, error) {
	q := `SELECT` + tourColumns + ` FROM tours WHERE driver_id = @driver_id ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"driver_id": driverID})
	if err != nil {
		return nil, fmt.Errorf("repo.TourRepo.ListByDriver: %w", err)
	}
	defer rows.Close()

	return collectTours(rows, "repo.TourRepo.ListByDriver")
}

func (r *pgTourRepo) AssignDriver(ctx context.Context, id, driverID uuid.UUID) error {
	const q = `
		UPDATE tours
		SET driver_id = @driver_id, status = @to, updated_at = now()
		WHERE id = @id AND status = @from`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{
		"id":        id,
		"driver_id": driverID,
		"from":      domain.TourNew,
		"to":        domain.TourPickupOpen,
	})
	if err != nil {
		return fmt.Errorf("repo.TourRepo.AssignDriver: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TourRepo.AssignDriver: %w", domain.ErrConflict)
	}
	return nil
}

func (r *pgTourRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.TourStatus) error {
	return updateTourStatus(ctx, r.db, id, from, to, "repo.TourRepo.UpdateStatus")
}

func (r *pgTourRepo) SetDistance(ctx context.Context, id uuid.UUID, km float64) error {
	const q = `UPDATE tours SET distance_km = @km, updated_at = now() WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id, "km": km})
	if err != nil {
		return fmt.Errorf("repo.TourRepo.SetDistance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TourRepo.SetDistance: %w", domain.ErrNotFound)
	}
	return nil
}

// updateTourStatus is the shared compare-and-set status update. It is also
// used inside the protocol submission transaction, which passes its pgx.Tx
// through the db interface.
func updateTourStatus(ctx context.Context, db db, id uuid.UUID, from, to domain.TourStatus, op string) error {
	const q = `
		UPDATE tours
		SET status = @to, updated_at = now()
		WHERE id = @id AND status = @from`

	tag, err := db.Exec(ctx, q, pgx.NamedArgs{"id": id, "from": from, "to": to})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, domain.ErrConflict)
	}
	return nil
}

func collectTours(rows pgx.Rows, op string) ([]domain.Tour, error) {
	var tours []domain.Tour
	for rows.Next() {
		t, err := scanTour(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		tours = append(tours, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}
	return tours, nil
}

// scanTour maps a single database row into a domain.Tour.
// It handles the UUID conversions and the nullable driver and window columns.
func scanTour(s scanner) (domain.Tour, error) {
	var (
		t        domain.Tour
		id       pgtype.UUID
		driverID pgtype.UUID
		puFrom   pgtype.Timestamptz
		puTo     pgtype.Timestamptz
		doFrom   pgtype.Timestamptz
		doTo     pgtype.Timestamptz
	)

	err := s.Scan(
		&id, &t.TourNumber, &t.VehicleType, &t.Plate, &t.VIN,
		&t.Pickup.Address, &t.Pickup.ContactName, &t.Pickup.ContactPhone, &puFrom, &puTo,
		&t.Dropoff.Address, &t.Dropoff.ContactName, &t.Dropoff.ContactPhone, &doFrom, &doTo,
		&t.DistanceKm, &driverID, &t.Status, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Tour{}, domain.ErrNotFound
		}
		return domain.Tour{}, err
	}

	t.ID = uuid.UUID(id.Bytes)
	if driverID.Valid {
		d := uuid.UUID(driverID.Bytes)
		t.DriverID = &d
	}
	if puFrom.Valid {
		v := puFrom.Time
		t.Pickup.WindowFrom = &v
	}
	if puTo.Valid {
		v := puTo.Time
		t.Pickup.WindowTo = &v
	}
	if doFrom.Valid {
		v := doFrom.Time
		t.Dropoff.WindowFrom = &v
	}
	if doTo.Valid {
		v := doTo.Time
		t.Dropoff.WindowTo = &v
	}

	return t, nil
}
