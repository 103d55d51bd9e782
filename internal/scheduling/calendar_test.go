package scheduling

import (
	"testing"
	"time"
)

func testCalendar(t *testing.T, holidays ...string) *Calendar {
	t.Helper()
	cal, err := NewCalendar("09:00", "17:00", 30, []string{"Mon", "Tue", "Wed", "Thu", "Fri"}, holidays, "UTC")
	if err != nil {
		t.Fatalf("NewCalendar: %v", err)
	}
	return cal
}

func TestSlotsForDayCount(t *testing.T) {
	cal := testCalendar(t)
	// Monday.
	slots := cal.SlotsForDay(time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC))
	if len(slots) != 16 {
		t.Fatalf("expected 16 half-hour slots in 09:00-17:00, got %d", len(slots))
	}
	if got := slots[0]; got.Hour() != 9 || got.Minute() != 0 {
		t.Errorf("first slot = %s, want 09:00", got)
	}
	if got := slots[len(slots)-1]; got.Hour() != 16 || got.Minute() != 30 {
		t.Errorf("last slot = %s, want 16:30", got)
	}
}

func TestSlotsForWeekendEmpty(t *testing.T) {
	cal := testCalendar(t)
	// Saturday.
	if slots := cal.SlotsForDay(time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC)); slots != nil {
		t.Fatalf("expected no slots on Saturday, got %d", len(slots))
	}
}

func TestHolidayNotBookable(t *testing.T) {
	cal := testCalendar(t, "2026-03-03")
	if cal.WorkingDay(time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC)) {
		t.Error("holiday should not be a working day")
	}
	if cal.ValidSlot(time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC)) {
		t.Error("holiday slot should be invalid")
	}
}

func TestValidSlot(t *testing.T) {
	cal := testCalendar(t)
	cases := []struct {
		name string
		t    time.Time
		want bool
	}{
		{"on grid", time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC), true},
		{"first slot", time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), true},
		{"last slot", time.Date(2026, 3, 2, 16, 30, 0, 0, time.UTC), true},
		{"off grid", time.Date(2026, 3, 2, 2, 15, 0, 0, time.UTC), false},
		{"quarter past", time.Date(2026, 3, 2, 10, 45, 0, 0, time.UTC), false},
		{"before opening", time.Date(2026, 3, 2, 8, 30, 0, 0, time.UTC), false},
		{"at closing", time.Date(2026, 3, 2, 17, 0, 0, 0, time.UTC), false},
		{"spills past closing", time.Date(2026, 3, 2, 16, 45, 0, 0, time.UTC), false},
		{"weekend", time.Date(2026, 3, 7, 10, 0, 0, 0, time.UTC), false},
		{"nonzero seconds", time.Date(2026, 3, 2, 10, 30, 12, 0, time.UTC), false},
	}
	for _, tc := range cases {
		if got := cal.ValidSlot(tc.t); got != tc.want {
			t.Errorf("%s: ValidSlot(%s) = %v, want %v", tc.name, tc.t, got, tc.want)
		}
	}
}

func TestSlotsBetweenSkipsPartialDay(t *testing.T) {
	cal := testCalendar(t)
	from := time.Date(2026, 3, 2, 15, 45, 0, 0, time.UTC)
	to := time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC)
	slots := cal.SlotsBetween(from, to)
	// Monday 16:00, 16:30 and Tuesday 09:00, 09:30.
	if len(slots) != 4 {
		t.Fatalf("expected 4 slots, got %d: %v", len(slots), slots)
	}
	if !slots[0].Equal(time.Date(2026, 3, 2, 16, 0, 0, 0, time.UTC)) {
		t.Errorf("first slot = %s", slots[0])
	}
	if !slots[3].Equal(time.Date(2026, 3, 3, 9, 30, 0, 0, time.UTC)) {
		t.Errorf("last slot = %s", slots[3])
	}
}

func TestNewCalendarRejectsBadInput(t *testing.T) {
	if _, err := NewCalendar("17:00", "09:00", 30, []string{"Mon"}, nil, "UTC"); err == nil {
		t.Error("expected error for inverted hours")
	}
	if _, err := NewCalendar("09:00", "17:00", 7, []string{"Mon"}, nil, "UTC"); err == nil {
		t.Error("expected error for granularity not dividing the window")
	}
	if _, err := NewCalendar("09:00", "17:00", 30, nil, nil, "UTC"); err == nil {
		t.Error("expected error for empty working days")
	}
	if _, err := NewCalendar("09:00", "17:00", 30, []string{"Mon"}, []string{"03/02/2026"}, "UTC"); err == nil {
		t.Error("expected error for malformed holiday")
	}
}
