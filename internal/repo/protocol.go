package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/jkaindl/fahrerportal/backend/internal/domain"
)

// ProtocolRepo defines the persistence operations for tour protocols.
//
// Submit is the atomic-submission contract from the wizard: the protocol
// header, its photos, its damages, and the tour status transition are all
// written in one transaction. Either everything lands or nothing does;
// a failed submission leaves no partial protocol behind.
type ProtocolRepo interface {
	// Submit persists one protocol with children and advances the tour from
	// tourFrom to tourTo in the same transaction.
	// Returns domain.ErrConflict when the tour is no longer in tourFrom or
	// when a protocol for (tour, phase) already exists.
	Submit(ctx context.Context, p domain.TourProtocol, tourFrom, tourTo domain.TourStatus) (domain.TourProtocol, error)

	// GetByTourAndPhase loads a protocol with its photos and damages.
	// Returns domain.ErrNotFound when the tour has no protocol in that phase.
	GetByTourAndPhase(ctx context.Context, tourID uuid.UUID, phase domain.ProtocolPhase) (domain.TourProtocol, error)
}

// pgProtocolRepo is the Postgres implementation of ProtocolRepo.
// It needs a handle that can open transactions, unlike the other repos.
type pgProtocolRepo struct {
	db txBeginner
}

// NewProtocolRepo constructs a ProtocolRepo. In production pass
// *pgxpool.Pool; in tests pass a pgx.Tx (Begin then opens a savepoint, so
// rollback isolation still works).
func NewProtocolRepo(db txBeginner) ProtocolRepo {
	return &pgProtocolRepo{db: db}
}

func (r *pgProtocolRepo) Submit(ctx context.Context, p domain.TourProtocol, tourFrom, tourTo domain.TourStatus) (domain.TourProtocol, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return domain.TourProtocol{}, fmt.Errorf("repo.ProtocolRepo.Submit: begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }() // no-op after a successful commit

	stored, err := insertProtocol(ctx, tx, p)
	if err != nil {
		return domain.TourProtocol{}, fmt.Errorf("repo.ProtocolRepo.Submit: %w", err)
	}

	for _, photo := range p.Photos {
		ph, err := insertPhoto(ctx, tx, stored.ID, photo)
		if err != nil {
			return domain.TourProtocol{}, fmt.Errorf("repo.ProtocolRepo.Submit: photo: %w", err)
		}
		stored.Photos = append(stored.Photos, ph)
	}

	for _, damage := range p.Damages {
		d, err := insertDamage(ctx, tx, stored.ID, damage)
		if err != nil {
			return domain.TourProtocol{}, fmt.Errorf("repo.ProtocolRepo.Submit: damage: %w", err)
		}
		stored.Damages = append(stored.Damages, d)
	}

	if err := updateTourStatus(ctx, tx, p.TourID, tourFrom, tourTo, "repo.ProtocolRepo.Submit"); err != nil {
		return domain.TourProtocol{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.TourProtocol{}, fmt.Errorf("repo.ProtocolRepo.Submit: commit: %w", err)
	}
	return stored, nil
}

func insertProtocol(ctx context.Context, tx pgx.Tx, p domain.TourProtocol) (domain.TourProtocol, error) {
	const q = `
		INSERT INTO tour_protocols (
			tour_id, driver_id, phase, odometer_km, fuel_level, cable_status, tire_type,
			acc_registration, acc_service_book, acc_nav_sd_card, acc_floor_mats,
			acc_plates_present, acc_radio_with_code, acc_antenna, acc_safety_kit,
			hubcaps, rim_material, outcome, recipient_name, recipient_signature,
			outcome_note, driver_signature, submitted_at
		)
		VALUES (
			@tour_id, @driver_id, @phase, @odometer_km, @fuel_level, @cable_status, @tire_type,
			@acc_registration, @acc_service_book, @acc_nav_sd_card, @acc_floor_mats,
			@acc_plates_present, @acc_radio_with_code, @acc_antenna, @acc_safety_kit,
			@hubcaps, @rim_material, @outcome, @recipient_name, @recipient_signature,
			@outcome_note, @driver_signature, @submitted_at
		)
		RETURNING id`

	args := pgx.NamedArgs{
		"tour_id":             p.TourID,
		"driver_id":           p.DriverID,
		"phase":               p.Phase,
		"odometer_km":         p.OdometerKm,
		"fuel_level":          p.FuelLevel,
		"cable_status":        string(p.CableStatus), // empty string for non-electric
		"tire_type":           p.TireType,
		"acc_registration":    p.Accessories.Registration,
		"acc_service_book":    p.Accessories.ServiceBook,
		"acc_nav_sd_card":     p.Accessories.NavSDCard,
		"acc_floor_mats":      p.Accessories.FloorMats,
		"acc_plates_present":  p.Accessories.PlatesPresent,
		"acc_radio_with_code": p.Accessories.RadioWithCode,
		"acc_antenna":         p.Accessories.Antenna,
		"acc_safety_kit":      p.Accessories.SafetyKit,
		"hubcaps":             p.Hubcaps,
		"rim_material":        p.RimMaterial,
		"outcome":             p.Outcome,
		"recipient_name":      p.RecipientName,
		"recipient_signature": p.RecipientSignature,
		"outcome_note":        p.OutcomeNote,
		"driver_signature":    p.DriverSignature,
		"submitted_at":        p.SubmittedAt,
	}

	var id pgtype.UUID
	if err := tx.QueryRow(ctx, q, args).Scan(&id); err != nil {
		if isUniqueViolation(err) {
			// A protocol for this (tour, phase) already exists.
			return domain.TourProtocol{}, domain.ErrConflict
		}
		return domain.TourProtocol{}, err
	}

	stored := p
	stored.ID = uuid.UUID(id.Bytes)
	stored.Photos = nil
	stored.Damages = nil
	return stored, nil
}

func insertPhoto(ctx context.Context, tx pgx.Tx, protocolID uuid.UUID, photo domain.ProtocolPhoto) (domain.ProtocolPhoto, error) {
	const q = `
		INSERT INTO protocol_photos (protocol_id, category, object_key)
		VALUES (@protocol_id, @category, @object_key)
		RETURNING id, created_at`

	var id pgtype.UUID
	err := tx.QueryRow(ctx, q, pgx.NamedArgs{
		"protocol_id": protocolID,
		"category":    photo.Category,
		"object_key":  photo.ObjectKey,
	}).Scan(&id, &photo.CreatedAt)
	if err != nil {
		return domain.ProtocolPhoto{}, err
	}

	photo.ID = uuid.UUID(id.Bytes)
	photo.ProtocolID = protocolID
	return photo, nil
}

func insertDamage(ctx context.Context, tx pgx.Tx, protocolID uuid.UUID, damage domain.ProtocolDamage) (domain.ProtocolDamage, error) {
	const q = `
		INSERT INTO protocol_damages (protocol_id, interior, damage_type, component, description, photo_keys)
		VALUES (@protocol_id, @interior, @damage_type, @component, @description, @photo_keys)
		RETURNING id, created_at`

	var id pgtype.UUID
	err := tx.QueryRow(ctx, q, pgx.NamedArgs{
		"protocol_id": protocolID,
		"interior":    damage.Interior,
		"damage_type": damage.DamageType,
		"component":   damage.Component,
		"description": damage.Description,
		"photo_keys":  damage.PhotoKeys,
	}).Scan(&id, &damage.CreatedAt)
	if err != nil {
		return domain.ProtocolDamage{}, err
	}

	damage.ID = uuid.UUID(id.Bytes)
	damage.ProtocolID = protocolID
	return damage, nil
}

func (r *pgProtocolRepo) GetByTourAndPhase(ctx context.Context, tourID uuid.UUID, phase domain.ProtocolPhase) (domain.TourProtocol, error) {
	const q = `
		SELECT id, tour_id, driver_id, phase, odometer_km, fuel_level, cable_status, tire_type,
		       acc_registration, acc_service_book, acc_nav_sd_card, acc_floor_mats,
		       acc_plates_present, acc_radio_with_code, acc_antenna, acc_safety_kit,
		       hubcaps, rim_material, outcome, recipient_name, recipient_signature,
		       outcome_note, driver_signature, submitted_at
		FROM tour_protocols
		WHERE tour_id = @tour_id AND phase = @phase`

	var (
		p        domain.TourProtocol
		id       pgtype.UUID
		tID      pgtype.UUID
		driverID pgtype.UUID
	)

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"tour_id": tourID, "phase": phase})
	err := row.Scan(&id, &tID, &driverID, &p.Phase, &p.OdometerKm, &p.FuelLevel, &p.CableStatus, &p.TireType,
		&p.Accessories.Registration, &p.Accessories.ServiceBook, &p.Accessories.NavSDCard, &p.Accessories.FloorMats,
		&p.Accessories.PlatesPresent, &p.Accessories.RadioWithCode, &p.Accessories.Antenna, &p.Accessories.SafetyKit,
		&p.Hubcaps, &p.RimMaterial, &p.Outcome, &p.RecipientName, &p.RecipientSignature,
		&p.OutcomeNote, &p.DriverSignature, &p.SubmittedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.TourProtocol{}, fmt.Errorf("repo.ProtocolRepo.GetByTourAndPhase: %w", domain.ErrNotFound)
		}
		return domain.TourProtocol{}, fmt.Errorf("repo.ProtocolRepo.GetByTourAndPhase: %w", err)
	}

	p.ID = uuid.UUID(id.Bytes)
	p.TourID = uuid.UUID(tID.Bytes)
	p.DriverID = uuid.UUID(driverID.Bytes)

	if p.Photos, err = r.listPhotos(ctx, p.ID); err != nil {
		return domain.TourProtocol{}, fmt.Errorf("repo.ProtocolRepo.GetByTourAndPhase: %w", err)
	}
	if p.Damages, err = r.listDamages(ctx, p.ID); err != nil {
		return domain.TourProtocol{}, fmt.Errorf("repo.ProtocolRepo.GetByTourAndPhase: %w", err)
	}

	return p, nil
}

func (r *pgProtocolRepo) listPhotos(ctx context.Context, protocolID uuid.UUID) ([]domain.ProtocolPhoto, error) {
	const q = `
		SELECT id, protocol_id, category, object_key, created_at
		FROM protocol_photos
		WHERE protocol_id = @protocol_id
		ORDER BY category`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"protocol_id": protocolID})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var photos []domain.ProtocolPhoto
	for rows.Next() {
		var (
			photo domain.ProtocolPhoto
			id    pgtype.UUID
			pID   pgtype.UUID
		)
		if err := rows.Scan(&id, &pID, &photo.Category, &photo.ObjectKey, &photo.CreatedAt); err != nil {
			return nil, err
		}
		photo.ID = uuid.UUID(id.Bytes)
		photo.ProtocolID = uuid.UUID(pID.Bytes)
		photos = append(photos, photo)
	}
	return photos, rows.Err()
}

func (r *pgProtocolRepo) listDamages(ctx context.Context, protocolID uuid.UUID) ([]domain.ProtocolDamage, error) {
	const q = `
		SELECT id, protocol_id, interior, damage_type, component, description, photo_keys, created_at
		FROM protocol_damages
		WHERE protocol_id = @protocol_id
		ORDER BY created_at`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"protocol_id": protocolID})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var damages []domain.ProtocolDamage
	for rows.Next() {
		var (
			damage domain.ProtocolDamage
			id     pgtype.UUID
			pID    pgtype.UUID
		)
		if err := rows.Scan(&id, &pID, &damage.Interior, &damage.DamageType, &damage.Component,
			&damage.Description, &damage.PhotoKeys, &damage.CreatedAt); err != nil {
			return nil, err
		}
		damage.ID = uuid.UUID(id.Bytes)
		damage.ProtocolID = uuid.UUID(pID.Bytes)
		damages = append(damages, damage)
	}
	return damages, rows.Err()
}

// isUniqueViolation reports whether err is a Postgres unique-constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
