package middleware

import (
	"net/http"
	"sync"
	"time"
)

// throttle tracks per-caller token buckets. It guards the credential
// endpoints, where unbounded retries would let an attacker grind passwords,
// so limits are keyed by client IP rather than by account.
type throttle struct {
	mu      sync.Mutex
	callers map[string]*tokenBucket
	refill  float64 // tokens per second
	burst   int
	now     func() time.Time
}

type tokenBucket struct {
	tokens float64
	seen   time.Time
}

func newThrottle(refill float64, burst int) *throttle {
	t := &throttle{
		callers: make(map[string]*tokenBucket),
		refill:  refill,
		burst:   burst,
		now:     time.Now,
	}
	go t.evictIdle()
	return t
}

// allow takes one token from the caller's bucket if available.
func (t *throttle) allow(caller string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	b, ok := t.callers[caller]
	if !ok {
		b = &tokenBucket{tokens: float64(t.burst), seen: now}
		t.callers[caller] = b
	}

	b.tokens += now.Sub(b.seen).Seconds() * t.refill
	if b.tokens > float64(t.burst) {
		b.tokens = float64(t.burst)
	}
	b.seen = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// evictIdle drops buckets that have not been touched recently so the map
// does not grow with every IP that ever hit /auth.
func (t *throttle) evictIdle() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		t.mu.Lock()
		cutoff := t.now().Add(-10 * time.Minute)
		for caller, b := range t.callers {
			if b.seen.Before(cutoff) {
				delete(t.callers, caller)
			}
		}
		t.mu.Unlock()
	}
}

// RateLimit rejects callers exceeding rate requests/sec (with the given
// burst) using 429 and a Retry-After hint. Intended for the register/login
// endpoints; authenticated routes rely on token checks instead.
func RateLimit(rate float64, burst int) func(http.Handler) http.Handler {
	limiter := newThrottle(rate, burst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller := r.RemoteAddr
			// Prefer X-Real-Ip set by chi's RealIP middleware.
			if xri := r.Header.Get("X-Real-Ip"); xri != "" {
				caller = xri
			}
			if !limiter.allow(caller) {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", "1")
				w.WriteHeader(http.StatusTooManyRequests)
				w.Write([]byte(`{"error":"too many attempts, slow down"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
