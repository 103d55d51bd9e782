package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/clinicdesk/receptionist/internal/scheduling"
	"github.com/clinicdesk/receptionist/pkg/logging"
)

// Recorder translates committed appointment state changes into outbox rows.
// It satisfies the scheduling engine's event hook; insert failures are
// logged and swallowed so delivery problems never surface as booking errors.
type Recorder struct {
	outbox *OutboxStore
	logger *logging.Logger
	now    func() time.Time
}

func NewRecorder(outbox *OutboxStore, logger *logging.Logger) *Recorder {
	if logger == nil {
		logger = logging.Default()
	}
	return &Recorder{outbox: outbox, logger: logger, now: time.Now}
}

func (r *Recorder) AppointmentBooked(ctx context.Context, appt scheduling.Appointment) {
	event := AppointmentBookedV1{
		EventID:       uuid.New().String(),
		AppointmentID: appt.ID,
		UserEmail:     appt.UserEmail,
		DoctorName:    appt.DoctorName,
		Disease:       appt.Disease,
		Time:          appt.Time,
		BookedAt:      r.now().UTC(),
	}
	if _, err := r.outbox.Insert(ctx, TypeAppointmentBooked, event); err != nil {
		r.logger.Error("failed to record booked event", "error", err, "appointment_id", appt.ID)
	}
}

func (r *Recorder) AppointmentCancelled(ctx context.Context, appt scheduling.Appointment) {
	event := AppointmentCancelledV1{
		EventID:       uuid.New().String(),
		AppointmentID: appt.ID,
		UserEmail:     appt.UserEmail,
		DoctorName:    appt.DoctorName,
		Time:          appt.Time,
		CancelledAt:   r.now().UTC(),
	}
	if _, err := r.outbox.Insert(ctx, TypeAppointmentCancelled, event); err != nil {
		r.logger.Error("failed to record cancelled event", "error", err, "appointment_id", appt.ID)
	}
}
