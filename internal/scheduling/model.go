package scheduling

import "time"

// Status tracks the appointment lifecycle.
type Status string

const (
	StatusScheduled Status = "Scheduled"
	StatusCompleted Status = "Completed"
	StatusCancelled Status = "Cancelled"
	StatusNoShow    Status = "No-Show"
)

// Terminal reports whether no further transitions are allowed.
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// Appointment is a booked slot for a user with a doctor.
type Appointment struct {
	ID         int64     `json:"id"`
	UserEmail  string    `json:"user_email"`
	DoctorName string    `json:"doctor_name"`
	Disease    string    `json:"disease"`
	Time       time.Time `json:"appointment_time"`
	Status     Status    `json:"status"`
	IsDeleted  bool      `json:"is_deleted"`
	QRCodePath string    `json:"qr_code_path,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Active reports whether the appointment occupies its slot.
func (a *Appointment) Active() bool {
	return a.Status == StatusScheduled && !a.IsDeleted
}
