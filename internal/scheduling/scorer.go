package scheduling

import (
	"context"
	"time"

	"github.com/clinicdesk/receptionist/internal/doctors"
)

// Candidate is a free slot under consideration by FindNextAvailable.
type Candidate struct {
	Doctor doctors.Doctor
	Time   time.Time
}

// SlotScorer ranks candidate slots by predicted quality. It is a pluggable
// strategy: the engine works correctly with NoopScorer, and never lets a
// scorer pick a slot later than the earliest free one plus the configured
// tolerance window.
type SlotScorer interface {
	Score(ctx context.Context, candidates []Candidate) ([]Candidate, error)
}

// NoopScorer preserves earliest-first order.
type NoopScorer struct{}

func (NoopScorer) Score(ctx context.Context, candidates []Candidate) ([]Candidate, error) {
	return candidates, nil
}

// HeuristicScorer prefers mid-morning slots, the pattern the historical
// no-show data favored. It is a deterministic stand-in for the external ML
// predictor and is safe to run without any model artifacts.
type HeuristicScorer struct{}

func (HeuristicScorer) Score(ctx context.Context, candidates []Candidate) ([]Candidate, error) {
	ranked := make([]Candidate, len(candidates))
	copy(ranked, candidates)

	// Stable selection by score; candidates arrive earliest-first so equal
	// scores keep that order.
	for i := 1; i < len(ranked); i++ {
		for j := i; j > 0 && slotScore(ranked[j].Time) > slotScore(ranked[j-1].Time); j-- {
			ranked[j], ranked[j-1] = ranked[j-1], ranked[j]
		}
	}
	return ranked, nil
}

// slotScore favors 10:00-12:00, then early afternoon, then the rest of the day.
func slotScore(t time.Time) int {
	switch h := t.Hour(); {
	case h >= 10 && h < 12:
		return 3
	case h >= 13 && h < 15:
		return 2
	case h >= 9 && h < 10:
		return 1
	default:
		return 0
	}
}
