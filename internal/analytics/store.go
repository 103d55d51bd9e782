package analytics

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Summary is the read-only front-desk dashboard: who is busy, what happened
// to past appointments, and when the lobby fills up. It is computed from
// historical rows, soft-deleted ones included, and never mutates them.
type Summary struct {
	AppointmentsPerDoctor []DoctorCount `json:"appointments_per_doctor"`
	StatusBreakdown       []StatusCount `json:"status_breakdown"`
	VisitorsPerDay        []DayCount    `json:"visitors_per_day"`
	BusiestSlots          []SlotCount   `json:"busiest_slots"`
	PeriodStart           time.Time     `json:"period_start"`
	PeriodEnd             time.Time     `json:"period_end"`
	GeneratedAt           time.Time     `json:"generated_at"`
}

type DoctorCount struct {
	DoctorName string `json:"doctor_name"`
	Count      int64  `json:"count"`
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type DayCount struct {
	Day   string `json:"day"`
	Count int64  `json:"count"`
}

type SlotCount struct {
	Slot  string `json:"slot"`
	Count int64  `json:"count"`
}

// Store computes dashboard aggregates. It runs on database/sql so the
// read-only reporting path stays decoupled from the booking pool.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// NewStore creates an analytics store over a database/sql handle.
func NewStore(db *sql.DB) *Store {
	if db == nil {
		panic("analytics: sql.DB required")
	}
	return &Store{db: db, now: time.Now}
}

// Summary computes all aggregates for appointments and visits in [from, to).
func (s *Store) Summary(ctx context.Context, from, to time.Time) (*Summary, error) {
	out := &Summary{
		PeriodStart: from,
		PeriodEnd:   to,
		GeneratedAt: s.now().UTC(),
	}

	perDoctor := `
		SELECT doctor_name, COUNT(*)
		FROM appointments
		WHERE appointment_time >= $1 AND appointment_time < $2
		GROUP BY doctor_name
		ORDER BY COUNT(*) DESC, doctor_name
	`
	if err := s.collect(ctx, perDoctor, from, to, func(rows *sql.Rows) error {
		var c DoctorCount
		if err := rows.Scan(&c.DoctorName, &c.Count); err != nil {
			return err
		}
		out.AppointmentsPerDoctor = append(out.AppointmentsPerDoctor, c)
		return nil
	}); err != nil {
		return nil, fmt.Errorf("analytics: appointments per doctor: %w", err)
	}

	byStatus := `
		SELECT status, COUNT(*)
		FROM appointments
		WHERE appointment_time >= $1 AND appointment_time < $2
		GROUP BY status
		ORDER BY status
	`
	if err := s.collect(ctx, byStatus, from, to, func(rows *sql.Rows) error {
		var c StatusCount
		if err := rows.Scan(&c.Status, &c.Count); err != nil {
			return err
		}
		out.StatusBreakdown = append(out.StatusBreakdown, c)
		return nil
	}); err != nil {
		return nil, fmt.Errorf("analytics: status breakdown: %w", err)
	}

	visitorsPerDay := `
		SELECT to_char(checked_in::date, 'YYYY-MM-DD'), COUNT(*)
		FROM visitors
		WHERE checked_in >= $1 AND checked_in < $2
		GROUP BY checked_in::date
		ORDER BY checked_in::date
	`
	if err := s.collect(ctx, visitorsPerDay, from, to, func(rows *sql.Rows) error {
		var c DayCount
		if err := rows.Scan(&c.Day, &c.Count); err != nil {
			return err
		}
		out.VisitorsPerDay = append(out.VisitorsPerDay, c)
		return nil
	}); err != nil {
		return nil, fmt.Errorf("analytics: visitors per day: %w", err)
	}

	busiestSlots := `
		SELECT to_char(appointment_time, 'HH24:MI'), COUNT(*)
		FROM appointments
		WHERE appointment_time >= $1 AND appointment_time < $2
		GROUP BY to_char(appointment_time, 'HH24:MI')
		ORDER BY COUNT(*) DESC, to_char(appointment_time, 'HH24:MI')
		LIMIT 10
	`
	if err := s.collect(ctx, busiestSlots, from, to, func(rows *sql.Rows) error {
		var c SlotCount
		if err := rows.Scan(&c.Slot, &c.Count); err != nil {
			return err
		}
		out.BusiestSlots = append(out.BusiestSlots, c)
		return nil
	}); err != nil {
		return nil, fmt.Errorf("analytics: busiest slots: %w", err)
	}

	return out, nil
}

func (s *Store) collect(ctx context.Context, query string, from, to time.Time, scan func(*sql.Rows) error) error {
	rows, err := s.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		if err := scan(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}
