package doctors

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// Repository provides access to doctor reference data and the
// disease-to-specialty mapping used to route patients.
type Repository interface {
	GetByName(ctx context.Context, name string) (*Doctor, error)
	ListBySpecialty(ctx context.Context, specialty string) ([]Doctor, error)
	ListAll(ctx context.Context) ([]Doctor, error)
	ResolveSpecialty(ctx context.Context, disease string) (string, bool, error)
}

// InMemoryRepository is a Repository backed by in-process maps, used in tests
// and when no database is configured.
type InMemoryRepository struct {
	mu          sync.RWMutex
	nextID      int64
	byName      map[string]*Doctor
	specialties map[string]string
}

// NewInMemoryRepository creates an empty in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		nextID:      1,
		byName:      make(map[string]*Doctor),
		specialties: make(map[string]string),
	}
}

// Add registers a doctor and returns the stored record.
func (r *InMemoryRepository) Add(name, specialty string) *Doctor {
	r.mu.Lock()
	defer r.mu.Unlock()
	d := &Doctor{ID: r.nextID, Name: name, Specialty: specialty}
	r.nextID++
	r.byName[strings.ToLower(name)] = d
	return d
}

// MapDisease registers a disease-to-specialty mapping.
func (r *InMemoryRepository) MapDisease(disease, specialty string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.specialties[strings.ToLower(disease)] = specialty
}

func (r *InMemoryRepository) GetByName(ctx context.Context, name string) (*Doctor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.byName[strings.ToLower(name)]
	if !ok {
		return nil, ErrDoctorNotFound
	}
	copy := *d
	return &copy, nil
}

func (r *InMemoryRepository) ListBySpecialty(ctx context.Context, specialty string) ([]Doctor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Doctor
	for _, d := range r.byName {
		if strings.EqualFold(d.Specialty, specialty) {
			out = append(out, *d)
		}
	}
	sortByID(out)
	return out, nil
}

func (r *InMemoryRepository) ListAll(ctx context.Context) ([]Doctor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Doctor, 0, len(r.byName))
	for _, d := range r.byName {
		out = append(out, *d)
	}
	sortByID(out)
	return out, nil
}

func (r *InMemoryRepository) ResolveSpecialty(ctx context.Context, disease string) (string, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.specialties[strings.ToLower(disease)]
	return s, ok, nil
}

// sortByID keeps listings deterministic; the engine's tie-break depends on it.
func sortByID(ds []Doctor) {
	sort.Slice(ds, func(i, j int) bool { return ds[i].ID < ds[j].ID })
}
