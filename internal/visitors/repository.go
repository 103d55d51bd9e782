package visitors

import (
	"context"
	"sync"
	"time"
)

// Repository defines the interface for visitor log storage.
type Repository interface {
	CheckIn(ctx context.Context, visit *Visit) (int64, error)
	ListRange(ctx context.Context, from, to time.Time) ([]Visit, error)
}

// InMemoryRepository keeps the log in memory for tests and local runs.
type InMemoryRepository struct {
	mu     sync.RWMutex
	nextID int64
	visits []Visit
}

// NewInMemoryRepository creates a new in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{nextID: 1}
}

func (r *InMemoryRepository) CheckIn(ctx context.Context, visit *Visit) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	visit.ID = r.nextID
	r.nextID++
	if visit.CheckedIn.IsZero() {
		visit.CheckedIn = time.Now().UTC()
	}
	r.visits = append(r.visits, *visit)
	return visit.ID, nil
}

func (r *InMemoryRepository) ListRange(ctx context.Context, from, to time.Time) ([]Visit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Visit
	for _, v := range r.visits {
		if !v.CheckedIn.Before(from) && v.CheckedIn.Before(to) {
			out = append(out, v)
		}
	}
	return out, nil
}
