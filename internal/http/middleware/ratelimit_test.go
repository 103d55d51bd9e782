package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimitExhaustsBurstThen429(t *testing.T) {
	mw := RateLimit(1, 3)
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.Header.Set("X-Real-Ip", "203.0.113.7")
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("attempt %d: expected %d, got %d", i+1, http.StatusOK, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	req.Header.Set("X-Real-Ip", "203.0.113.7")
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected %d after burst, got %d", http.StatusTooManyRequests, rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header on throttled response")
	}
}

func TestRateLimitIsolatesCallers(t *testing.T) {
	mw := RateLimit(1, 1)
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	first := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/register", nil)
	req.Header.Set("X-Real-Ip", "198.51.100.1")
	handler.ServeHTTP(first, req)

	throttled := httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/auth/register", nil)
	req.Header.Set("X-Real-Ip", "198.51.100.1")
	handler.ServeHTTP(throttled, req)
	if throttled.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request throttled, got %d", throttled.Code)
	}

	other := httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/auth/register", nil)
	req.Header.Set("X-Real-Ip", "198.51.100.2")
	handler.ServeHTTP(other, req)
	if other.Code != http.StatusOK {
		t.Fatalf("expected a different caller to pass, got %d", other.Code)
	}
}

func TestThrottleRefillsOverTime(t *testing.T) {
	th := newThrottle(10, 1)
	current := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	th.now = func() time.Time { return current }

	if !th.allow("desk") {
		t.Fatal("first attempt should pass")
	}
	if th.allow("desk") {
		t.Fatal("bucket should be empty immediately after")
	}

	current = current.Add(200 * time.Millisecond)
	if !th.allow("desk") {
		t.Fatal("bucket should refill after 200ms at 10/sec")
	}
}
