package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

const bookingPortal = "https://booking.clinicdesk.example"

func TestCORSOriginHandling(t *testing.T) {
	cases := []struct {
		name        string
		allowed     []string
		origin      string
		wantAllowed string
	}{
		{"booking portal allowed", []string{bookingPortal}, bookingPortal, bookingPortal},
		{"unknown site denied", []string{bookingPortal}, "https://phish.example", ""},
		{"wildcard echoes any origin", []string{"*"}, "https://kiosk.lobby.example", "https://kiosk.lobby.example"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := CORS(tc.allowed)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))
			req := httptest.NewRequest(http.MethodGet, "/appointments/next-available", nil)
			req.Header.Set("Origin", tc.origin)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tc.wantAllowed {
				t.Fatalf("Access-Control-Allow-Origin = %q, want %q", got, tc.wantAllowed)
			}
			if tc.wantAllowed != "" && rec.Header().Get("Access-Control-Allow-Headers") == "" {
				t.Error("expected Access-Control-Allow-Headers on allowed origin")
			}
		})
	}
}

func TestCORSPreflightForBookingDoesNotHitHandler(t *testing.T) {
	called := false
	handler := CORS([]string{bookingPortal})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodOptions, "/appointments", nil)
	req.Header.Set("Origin", bookingPortal)
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Authorization")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if called {
		t.Fatal("preflight must be answered by the middleware")
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected %d, got %d", http.StatusNoContent, rec.Code)
	}
}
