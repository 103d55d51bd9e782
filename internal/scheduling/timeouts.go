package scheduling

import (
	"context"
	"time"
)

// timeoutStore decorates a Store so every call runs under a deadline. A store
// that hangs surfaces context.DeadlineExceeded, which callers see as a
// retryable infrastructure error distinct from the domain codes.
type timeoutStore struct {
	inner   Store
	timeout time.Duration
}

// StoreWithTimeout bounds every store call with the given timeout.
func StoreWithTimeout(inner Store, timeout time.Duration) Store {
	if timeout <= 0 {
		return inner
	}
	if ts, ok := inner.(*timeoutStore); ok {
		inner = ts.inner
	}
	return &timeoutStore{inner: inner, timeout: timeout}
}

func (s *timeoutStore) InsertScheduled(ctx context.Context, appt *Appointment) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.inner.InsertScheduled(ctx, appt)
}

func (s *timeoutStore) CancelScheduled(ctx context.Context, userEmail string, at, now time.Time) (*Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.inner.CancelScheduled(ctx, userEmail, at, now)
}

func (s *timeoutStore) SetStatus(ctx context.Context, id int64, to Status, now time.Time) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.inner.SetStatus(ctx, id, to, now)
}

func (s *timeoutStore) GetByID(ctx context.Context, id int64) (*Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.inner.GetByID(ctx, id)
}

func (s *timeoutStore) OccupiedSlots(ctx context.Context, doctor string, from, to time.Time) (map[int64]struct{}, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.inner.OccupiedSlots(ctx, doctor, from, to)
}

func (s *timeoutStore) UserBusyAt(ctx context.Context, userEmail string, at time.Time) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.inner.UserBusyAt(ctx, userEmail, at)
}

func (s *timeoutStore) ListForUser(ctx context.Context, userEmail string, includeDeleted bool) ([]Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.inner.ListForUser(ctx, userEmail, includeDeleted)
}
