package scheduling

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore is a Store backed by in-process maps. The mutex plays the role
// of the database's uniqueness constraint: at most one InsertScheduled wins a
// slot. Used by tests and when no database is configured.
type MemoryStore struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]*Appointment
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextID: 1,
		rows:   make(map[int64]*Appointment),
	}
}

func (s *MemoryStore) InsertScheduled(ctx context.Context, appt *Appointment) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, row := range s.rows {
		if !row.Active() || !row.Time.Equal(appt.Time) {
			continue
		}
		if row.UserEmail == appt.UserEmail {
			return 0, domainErrorf(CodeUserConflict, "user %s already booked at %s", appt.UserEmail, appt.Time)
		}
		if row.DoctorName == appt.DoctorName {
			return 0, domainErrorf(CodeSlotBooked, "slot %s with %s is already booked", appt.Time, appt.DoctorName)
		}
	}

	stored := *appt
	stored.ID = s.nextID
	stored.Status = StatusScheduled
	stored.IsDeleted = false
	stored.UpdatedAt = stored.CreatedAt
	s.nextID++
	s.rows[stored.ID] = &stored
	return stored.ID, nil
}

func (s *MemoryStore) CancelScheduled(ctx context.Context, userEmail string, at, now time.Time) (*Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, row := range s.rows {
		if row.Active() && row.UserEmail == userEmail && row.Time.Equal(at) {
			row.Status = StatusCancelled
			row.IsDeleted = true
			row.UpdatedAt = now
			copy := *row
			return &copy, nil
		}
	}
	return nil, domainErrorf(CodeNotFound, "no scheduled appointment for %s at %s", userEmail, at)
}

func (s *MemoryStore) SetStatus(ctx context.Context, id int64, to Status, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.rows[id]
	if !ok || !row.Active() {
		return false, nil
	}
	row.Status = to
	row.UpdatedAt = now
	return true, nil
}

func (s *MemoryStore) GetByID(ctx context.Context, id int64) (*Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.rows[id]
	if !ok {
		return nil, domainErrorf(CodeNotFound, "appointment %d does not exist", id)
	}
	copy := *row
	return &copy, nil
}

func (s *MemoryStore) OccupiedSlots(ctx context.Context, doctor string, from, to time.Time) (map[int64]struct{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	occupied := make(map[int64]struct{})
	for _, row := range s.rows {
		if row.Active() && row.DoctorName == doctor && !row.Time.Before(from) && row.Time.Before(to) {
			occupied[row.Time.Unix()] = struct{}{}
		}
	}
	return occupied, nil
}

func (s *MemoryStore) UserBusyAt(ctx context.Context, userEmail string, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, row := range s.rows {
		if row.Active() && row.UserEmail == userEmail && row.Time.Equal(at) {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) ListForUser(ctx context.Context, userEmail string, includeDeleted bool) ([]Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Appointment
	for _, row := range s.rows {
		if row.UserEmail != userEmail {
			continue
		}
		if row.IsDeleted && !includeDeleted {
			continue
		}
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Time.After(out[j].Time) })
	return out, nil
}
