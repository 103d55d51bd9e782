package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/clinicdesk/receptionist/internal/visitors"
	"github.com/clinicdesk/receptionist/pkg/logging"
)

func newVisitorsHandler() *VisitorsHandler {
	h := NewVisitorsHandler(visitors.NewInMemoryRepository(), logging.New("error"))
	h.now = func() time.Time { return time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC) }
	return h
}

func TestVisitorCheckIn(t *testing.T) {
	h := newVisitorsHandler()
	rec := post(h.CheckIn, "/visitors", `{"name":"Ana","purpose":"pharma rep","company":"Medco"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var visit visitors.Visit
	if err := json.Unmarshal(rec.Body.Bytes(), &visit); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if visit.ID == 0 || visit.CheckedIn.IsZero() {
		t.Errorf("visit = %+v", visit)
	}
}

func TestVisitorCheckInRequiresName(t *testing.T) {
	h := newVisitorsHandler()
	if rec := post(h.CheckIn, "/visitors", `{"purpose":"delivery"}`); rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestVisitorListDefaultsToToday(t *testing.T) {
	h := newVisitorsHandler()
	if rec := post(h.CheckIn, "/visitors", `{"name":"Ana"}`); rec.Code != http.StatusCreated {
		t.Fatalf("check-in: %d", rec.Code)
	}

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/visitors", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Count != 1 {
		t.Errorf("count = %d, want 1", resp.Count)
	}
}

func TestVisitorListRejectsInvertedRange(t *testing.T) {
	h := newVisitorsHandler()
	rec := httptest.NewRecorder()
	target := "/visitors?from=2026-03-02T12:00:00Z&to=2026-03-02T09:00:00Z"
	h.List(rec, httptest.NewRequest(http.MethodGet, target, nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "after") {
		t.Errorf("body = %s", rec.Body.String())
	}
}
