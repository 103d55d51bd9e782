package scheduling

import "time"

// Lifecycle enforces the appointment state machine:
//
//	Scheduled -> Completed | Cancelled | No-Show
//
// Terminal states admit no further transitions. Cancellation is the only
// transition that also soft-deletes the row; Completed and No-Show leave
// is_deleted untouched so the record stays visible.
type Lifecycle struct{}

// Validate checks the transition of appt to the target status at the given
// wall clock. Completed and No-Show are back-office transitions and require
// the appointment time to already be in the past.
func (Lifecycle) Validate(appt *Appointment, to Status, now time.Time) error {
	if appt == nil {
		return domainErrorf(CodeNotFound, "appointment does not exist")
	}
	if appt.Status != StatusScheduled || appt.Status.Terminal() {
		return domainErrorf(CodeInvalidTransition, "appointment %d is %s, not Scheduled", appt.ID, appt.Status)
	}
	switch to {
	case StatusCancelled:
		return nil
	case StatusCompleted, StatusNoShow:
		if appt.Time.After(now) {
			return domainErrorf(CodeInvalidTransition, "appointment %d has not occurred yet", appt.ID)
		}
		return nil
	}
	return domainErrorf(CodeInvalidTransition, "cannot transition to %s", to)
}

// Apply stamps the transition onto the in-memory record. Callers persist the
// change inside their own transaction.
func (l Lifecycle) Apply(appt *Appointment, to Status, now time.Time) error {
	if err := l.Validate(appt, to, now); err != nil {
		return err
	}
	appt.Status = to
	appt.UpdatedAt = now
	if to == StatusCancelled {
		appt.IsDeleted = true
	}
	return nil
}
