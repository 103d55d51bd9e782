package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Partial unique index names enforced by the migrations. The insert relies on
// them as the final arbiter under concurrent bookings.
const (
	doctorSlotConstraint = "uq_appointments_doctor_slot"
	userSlotConstraint   = "uq_appointments_user_slot"
)

// Store is the transactional persistence interface consumed by the engine.
// Implementations return *DomainError for business rejections and plain
// wrapped errors for infrastructure failures.
type Store interface {
	// InsertScheduled persists a new Scheduled appointment and returns its id.
	// A losing race for the slot surfaces SLOT_BOOKED; a user double-booking
	// at the same instant surfaces USER_CONFLICT.
	InsertScheduled(ctx context.Context, appt *Appointment) (int64, error)

	// CancelScheduled atomically transitions the unique active appointment at
	// (userEmail, at) to Cancelled with is_deleted set, or returns NOT_FOUND.
	CancelScheduled(ctx context.Context, userEmail string, at, now time.Time) (*Appointment, error)

	// SetStatus applies a guarded transition out of Scheduled; false means the
	// row was not in the Scheduled state anymore.
	SetStatus(ctx context.Context, id int64, to Status, now time.Time) (bool, error)

	GetByID(ctx context.Context, id int64) (*Appointment, error)

	// OccupiedSlots returns the start times of active appointments for the
	// doctor in [from, to), keyed by Unix seconds. One ranged query, never
	// one per slot.
	OccupiedSlots(ctx context.Context, doctor string, from, to time.Time) (map[int64]struct{}, error)

	// UserBusyAt reports whether the user holds an active appointment at the
	// exact time, with any doctor.
	UserBusyAt(ctx context.Context, userEmail string, at time.Time) (bool, error)

	// ListForUser returns the user's appointment history, newest first.
	// Soft-deleted rows are included when includeDeleted is set (audit view).
	ListForUser(ctx context.Context, userEmail string, includeDeleted bool) ([]Appointment, error)
}

// schedulingDB is the subset of pgxpool.Pool the store needs; pgxmock
// satisfies it in tests.
type schedulingDB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore implements Store on pgx.
type PostgresStore struct {
	db schedulingDB
}

// NewPostgresStore initializes a store backed by pgxpool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	if pool == nil {
		panic("scheduling: pgx pool required")
	}
	return &PostgresStore{db: pool}
}

// NewPostgresStoreWithDB allows injecting a mock database for testing.
func NewPostgresStoreWithDB(db schedulingDB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) InsertScheduled(ctx context.Context, appt *Appointment) (int64, error) {
	query := `
		INSERT INTO appointments (user_email, doctor_name, disease, appointment_time, status, is_deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, FALSE, $6, $6)
		RETURNING id
	`
	var id int64
	err := s.db.QueryRow(ctx, query,
		appt.UserEmail,
		appt.DoctorName,
		appt.Disease,
		appt.Time,
		StatusScheduled,
		appt.CreatedAt,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			switch pgErr.ConstraintName {
			case userSlotConstraint:
				return 0, domainErrorf(CodeUserConflict, "user %s already booked at %s", appt.UserEmail, appt.Time)
			case doctorSlotConstraint:
				return 0, domainErrorf(CodeSlotBooked, "slot %s with %s is already booked", appt.Time, appt.DoctorName)
			}
			// Unique violations from constraints we don't know about are
			// infrastructure failures, not booking conflicts.
		}
		return 0, fmt.Errorf("scheduling: insert appointment: %w", err)
	}
	return id, nil
}

func (s *PostgresStore) CancelScheduled(ctx context.Context, userEmail string, at, now time.Time) (*Appointment, error) {
	query := `
		UPDATE appointments
		SET status = $3, is_deleted = TRUE, updated_at = $4
		WHERE user_email = $1 AND appointment_time = $2 AND status = $5 AND NOT is_deleted
		RETURNING id, user_email, doctor_name, disease, appointment_time, status, is_deleted, COALESCE(qr_code_path, ''), created_at, updated_at
	`
	appt, err := scanAppointment(s.db.QueryRow(ctx, query, userEmail, at, StatusCancelled, now, StatusScheduled))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrorf(CodeNotFound, "no scheduled appointment for %s at %s", userEmail, at)
		}
		return nil, fmt.Errorf("scheduling: cancel appointment: %w", err)
	}
	return appt, nil
}

func (s *PostgresStore) SetStatus(ctx context.Context, id int64, to Status, now time.Time) (bool, error) {
	query := `
		UPDATE appointments
		SET status = $2, updated_at = $3
		WHERE id = $1 AND status = $4 AND NOT is_deleted
	`
	ct, err := s.db.Exec(ctx, query, id, to, now, StatusScheduled)
	if err != nil {
		return false, fmt.Errorf("scheduling: set status: %w", err)
	}
	return ct.RowsAffected() == 1, nil
}

func (s *PostgresStore) GetByID(ctx context.Context, id int64) (*Appointment, error) {
	query := `
		SELECT id, user_email, doctor_name, disease, appointment_time, status, is_deleted, COALESCE(qr_code_path, ''), created_at, updated_at
		FROM appointments
		WHERE id = $1
	`
	appt, err := scanAppointment(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrorf(CodeNotFound, "appointment %d does not exist", id)
		}
		return nil, fmt.Errorf("scheduling: load appointment: %w", err)
	}
	return appt, nil
}

func (s *PostgresStore) OccupiedSlots(ctx context.Context, doctor string, from, to time.Time) (map[int64]struct{}, error) {
	query := `
		SELECT appointment_time
		FROM appointments
		WHERE doctor_name = $1 AND appointment_time >= $2 AND appointment_time < $3
		  AND status = $4 AND NOT is_deleted
	`
	rows, err := s.db.Query(ctx, query, doctor, from, to, StatusScheduled)
	if err != nil {
		return nil, fmt.Errorf("scheduling: query occupied slots: %w", err)
	}
	defer rows.Close()

	occupied := make(map[int64]struct{})
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scheduling: scan occupied slot: %w", err)
		}
		occupied[t.Unix()] = struct{}{}
	}
	return occupied, rows.Err()
}

func (s *PostgresStore) UserBusyAt(ctx context.Context, userEmail string, at time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM appointments
			WHERE user_email = $1 AND appointment_time = $2 AND status = $3 AND NOT is_deleted
		)
	`
	var busy bool
	if err := s.db.QueryRow(ctx, query, userEmail, at, StatusScheduled).Scan(&busy); err != nil {
		return false, fmt.Errorf("scheduling: query user conflict: %w", err)
	}
	return busy, nil
}

func (s *PostgresStore) ListForUser(ctx context.Context, userEmail string, includeDeleted bool) ([]Appointment, error) {
	query := `
		SELECT id, user_email, doctor_name, disease, appointment_time, status, is_deleted, COALESCE(qr_code_path, ''), created_at, updated_at
		FROM appointments
		WHERE user_email = $1 AND (is_deleted = FALSE OR $2)
		ORDER BY appointment_time DESC
	`
	rows, err := s.db.Query(ctx, query, userEmail, includeDeleted)
	if err != nil {
		return nil, fmt.Errorf("scheduling: list appointments: %w", err)
	}
	defer rows.Close()

	var out []Appointment
	for rows.Next() {
		var a Appointment
		if err := rows.Scan(&a.ID, &a.UserEmail, &a.DoctorName, &a.Disease, &a.Time, &a.Status, &a.IsDeleted, &a.QRCodePath, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scheduling: scan appointment: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	if err := row.Scan(&a.ID, &a.UserEmail, &a.DoctorName, &a.Disease, &a.Time, &a.Status, &a.IsDeleted, &a.QRCodePath, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}
