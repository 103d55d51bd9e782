package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/clinicdesk/receptionist/internal/auth"
	"github.com/clinicdesk/receptionist/internal/doctors"
	"github.com/clinicdesk/receptionist/internal/http/middleware"
	"github.com/clinicdesk/receptionist/internal/scheduling"
	"github.com/clinicdesk/receptionist/pkg/logging"
)

// Monday 08:00 UTC, before opening.
var testNow = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

type fixture struct {
	handler *AppointmentsHandler
	issuer  *auth.TokenIssuer
	token   string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	directory := doctors.NewInMemoryRepository()
	directory.Add("Dr. Smith", "General Medicine")
	directory.MapDisease("fever", "General Medicine")

	calendar, err := scheduling.NewCalendar("09:00", "17:00", 30,
		[]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}, nil, "UTC")
	if err != nil {
		t.Fatalf("NewCalendar: %v", err)
	}

	logger := logging.New("error")
	engine := scheduling.NewEngine(scheduling.NewMemoryStore(), directory, calendar, logger).
		WithClock(func() time.Time { return testNow })

	issuer := auth.NewTokenIssuer("test-secret", time.Hour)
	token, err := issuer.Issue("ana@example.com", "Ana")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	return &fixture{
		handler: NewAppointmentsHandler(engine, logger),
		issuer:  issuer,
		token:   token,
	}
}

func (f *fixture) do(t *testing.T, method, target, body string, h http.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+f.token)
	rec := httptest.NewRecorder()
	middleware.RequireUser(f.issuer)(h).ServeHTTP(rec, req)
	return rec
}

func TestBookEndpoint(t *testing.T) {
	f := newFixture(t)
	body := `{"doctor_name":"Dr. Smith","disease":"fever","time":"2026-03-02T10:00:00Z"}`
	rec := f.do(t, http.MethodPost, "/appointments", body, f.handler.Book)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var appt scheduling.Appointment
	if err := json.Unmarshal(rec.Body.Bytes(), &appt); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if appt.UserEmail != "ana@example.com" || appt.Status != scheduling.StatusScheduled {
		t.Errorf("appt = %+v", appt)
	}
}

func TestBookEndpointStatusMapping(t *testing.T) {
	cases := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{"past date", `{"doctor_name":"Dr. Smith","time":"2026-03-02T07:00:00Z"}`, http.StatusBadRequest, "PAST_DATE"},
		{"unknown doctor", `{"doctor_name":"Dr. Nobody","time":"2026-03-02T10:00:00Z"}`, http.StatusNotFound, "DOCTOR_NOT_FOUND"},
		{"off-grid slot", `{"doctor_name":"Dr. Smith","time":"2026-03-02T10:15:00Z"}`, http.StatusUnprocessableEntity, "INVALID_SLOT"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			rec := f.do(t, http.MethodPost, "/appointments", tc.body, f.handler.Book)
			if rec.Code != tc.wantStatus {
				t.Errorf("status = %d, want %d (%s)", rec.Code, tc.wantStatus, rec.Body.String())
			}
			var body errorBody
			_ = json.Unmarshal(rec.Body.Bytes(), &body)
			if body.Code != tc.wantCode {
				t.Errorf("code = %q, want %q", body.Code, tc.wantCode)
			}
		})
	}
}

func TestBookEndpointDoubleBookingConflict(t *testing.T) {
	f := newFixture(t)
	body := `{"doctor_name":"Dr. Smith","time":"2026-03-02T10:00:00Z"}`

	if rec := f.do(t, http.MethodPost, "/appointments", body, f.handler.Book); rec.Code != http.StatusCreated {
		t.Fatalf("first booking: %d", rec.Code)
	}
	rec := f.do(t, http.MethodPost, "/appointments", body, f.handler.Book)
	if rec.Code != http.StatusConflict {
		t.Fatalf("second booking: status = %d, want 409", rec.Code)
	}
}

func TestBookEndpointRejectsUnauthenticated(t *testing.T) {
	f := newFixture(t)
	req := httptest.NewRequest(http.MethodPost, "/appointments", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	middleware.RequireUser(f.issuer)(http.HandlerFunc(f.handler.Book)).ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestCancelEndpointReleasesSlot(t *testing.T) {
	f := newFixture(t)
	book := `{"doctor_name":"Dr. Smith","time":"2026-03-02T10:00:00Z"}`
	if rec := f.do(t, http.MethodPost, "/appointments", book, f.handler.Book); rec.Code != http.StatusCreated {
		t.Fatalf("booking: %d", rec.Code)
	}

	rec := f.do(t, http.MethodPost, "/appointments/cancel", `{"time":"2026-03-02T10:00:00Z"}`, f.handler.Cancel)
	if rec.Code != http.StatusOK {
		t.Fatalf("cancel: status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var appt scheduling.Appointment
	if err := json.Unmarshal(rec.Body.Bytes(), &appt); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if appt.Status != scheduling.StatusCancelled || !appt.IsDeleted {
		t.Errorf("appt = %+v", appt)
	}

	if rec := f.do(t, http.MethodPost, "/appointments", book, f.handler.Book); rec.Code != http.StatusCreated {
		t.Errorf("rebooking released slot: %d", rec.Code)
	}
}

func TestCancelEndpointNotFound(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/appointments/cancel", `{"time":"2026-03-02T10:00:00Z"}`, f.handler.Cancel)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestNextAvailableEndpoint(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/appointments/next-available?doctor=Dr.+Smith", "", f.handler.NextAvailable)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var slot scheduling.NextSlot
	if err := json.Unmarshal(rec.Body.Bytes(), &slot); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	if !slot.Time.Equal(want) {
		t.Errorf("slot = %v, want %v", slot.Time, want)
	}
}

func TestNextAvailableEndpointUnknownDoctor(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/appointments/next-available?doctor=Dr.+Nobody", "", f.handler.NextAvailable)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestHistoryEndpointIncludesDeletedOnRequest(t *testing.T) {
	f := newFixture(t)
	book := `{"doctor_name":"Dr. Smith","time":"2026-03-02T10:00:00Z"}`
	if rec := f.do(t, http.MethodPost, "/appointments", book, f.handler.Book); rec.Code != http.StatusCreated {
		t.Fatalf("booking: %d", rec.Code)
	}
	if rec := f.do(t, http.MethodPost, "/appointments/cancel", `{"time":"2026-03-02T10:00:00Z"}`, f.handler.Cancel); rec.Code != http.StatusOK {
		t.Fatalf("cancel: %d", rec.Code)
	}

	count := func(target string) int {
		rec := f.do(t, http.MethodGet, target, "", f.handler.History)
		if rec.Code != http.StatusOK {
			t.Fatalf("history: %d", rec.Code)
		}
		var resp struct {
			Count int `json:"count"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		return resp.Count
	}

	if got := count("/appointments"); got != 0 {
		t.Errorf("default view count = %d, want 0", got)
	}
	if got := count("/appointments?include_deleted=true"); got != 1 {
		t.Errorf("audit view count = %d, want 1", got)
	}
}

func TestHealthEndpoint(t *testing.T) {
	rec := httptest.NewRecorder()
	Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "ok") {
		t.Errorf("body = %s", rec.Body.String())
	}
}
