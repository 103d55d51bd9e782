package events

import "time"

// Event type discriminators stored in the outbox and carried on the wire.
const (
	TypeAppointmentBooked    = "appointment.booked.v1"
	TypeAppointmentCancelled = "appointment.cancelled.v1"
)

// AppointmentBookedV1 announces a successfully committed booking.
type AppointmentBookedV1 struct {
	EventID       string    `json:"event_id"`
	AppointmentID int64     `json:"appointment_id"`
	UserEmail     string    `json:"user_email"`
	DoctorName    string    `json:"doctor_name"`
	Disease       string    `json:"disease,omitempty"`
	Time          time.Time `json:"time"`
	BookedAt      time.Time `json:"booked_at"`
}

// AppointmentCancelledV1 announces a cancellation. The slot named by Time is
// free again once this event exists.
type AppointmentCancelledV1 struct {
	EventID       string    `json:"event_id"`
	AppointmentID int64     `json:"appointment_id"`
	UserEmail     string    `json:"user_email"`
	DoctorName    string    `json:"doctor_name"`
	Time          time.Time `json:"time"`
	CancelledAt   time.Time `json:"cancelled_at"`
}
