package scheduling

import (
	"testing"
	"time"
)

func TestLifecycleCancelFromScheduled(t *testing.T) {
	var lc Lifecycle
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	appt := &Appointment{ID: 1, Status: StatusScheduled, Time: now.Add(2 * time.Hour)}

	if err := lc.Apply(appt, StatusCancelled, now); err != nil {
		t.Fatalf("cancel from scheduled: %v", err)
	}
	if appt.Status != StatusCancelled || !appt.IsDeleted {
		t.Errorf("cancel should set status + soft delete, got %s deleted=%v", appt.Status, appt.IsDeleted)
	}
	if !appt.UpdatedAt.Equal(now) {
		t.Errorf("updated_at not bumped")
	}
}

func TestLifecycleCompleteRequiresPastTime(t *testing.T) {
	var lc Lifecycle
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

	future := &Appointment{ID: 1, Status: StatusScheduled, Time: now.Add(time.Hour)}
	err := lc.Validate(future, StatusCompleted, now)
	if code, _ := CodeOf(err); code != CodeInvalidTransition {
		t.Fatalf("completing a future appointment: got %v, want INVALID_TRANSITION", err)
	}

	past := &Appointment{ID: 2, Status: StatusScheduled, Time: now.Add(-time.Hour)}
	if err := lc.Apply(past, StatusCompleted, now); err != nil {
		t.Fatalf("completing a past appointment: %v", err)
	}
	if past.IsDeleted {
		t.Error("completed appointments must stay visible, not soft-deleted")
	}
}

func TestLifecycleNoShowRequiresPastTime(t *testing.T) {
	var lc Lifecycle
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	past := &Appointment{ID: 3, Status: StatusScheduled, Time: now.Add(-30 * time.Minute)}
	if err := lc.Apply(past, StatusNoShow, now); err != nil {
		t.Fatalf("no-show on past appointment: %v", err)
	}
	if past.Status != StatusNoShow || past.IsDeleted {
		t.Errorf("unexpected state %s deleted=%v", past.Status, past.IsDeleted)
	}
}

func TestLifecycleTerminalStatesImmutable(t *testing.T) {
	var lc Lifecycle
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	for _, from := range []Status{StatusCompleted, StatusCancelled, StatusNoShow} {
		for _, to := range []Status{StatusScheduled, StatusCompleted, StatusCancelled, StatusNoShow} {
			appt := &Appointment{ID: 4, Status: from, Time: now.Add(-time.Hour)}
			err := lc.Validate(appt, to, now)
			if code, _ := CodeOf(err); code != CodeInvalidTransition {
				t.Errorf("%s -> %s: got %v, want INVALID_TRANSITION", from, to, err)
			}
		}
	}
}

func TestLifecycleRejectsScheduledTarget(t *testing.T) {
	var lc Lifecycle
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	appt := &Appointment{ID: 5, Status: StatusScheduled, Time: now.Add(-time.Hour)}
	err := lc.Validate(appt, StatusScheduled, now)
	if code, _ := CodeOf(err); code != CodeInvalidTransition {
		t.Errorf("scheduled -> scheduled: got %v, want INVALID_TRANSITION", err)
	}
}
