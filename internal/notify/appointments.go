package notify

import (
	"fmt"
	"strings"
	"time"
)

// AppointmentDetails carries what the appointment emails need to say.
type AppointmentDetails struct {
	UserEmail  string
	DoctorName string
	Disease    string
	Time       time.Time
	QRCodePath string
}

// ConfirmationEmail renders the booking confirmation.
func ConfirmationEmail(d AppointmentDetails) EmailMessage {
	var b strings.Builder
	fmt.Fprintf(&b, "Your appointment with %s is confirmed for %s.\n",
		d.DoctorName, d.Time.Format("Monday, January 2 2006 at 3:04 PM"))
	if d.Disease != "" {
		fmt.Fprintf(&b, "Reason for visit: %s.\n", d.Disease)
	}
	if d.QRCodePath != "" {
		fmt.Fprintf(&b, "Present the QR code attached to your booking (%s) at the front desk.\n", d.QRCodePath)
	}
	b.WriteString("Please arrive 10 minutes early. Reply to this email if you need to reschedule.\n")

	return EmailMessage{
		To:      d.UserEmail,
		Subject: fmt.Sprintf("Appointment confirmed: %s, %s", d.DoctorName, d.Time.Format("Jan 2 3:04 PM")),
		Body:    b.String(),
	}
}

// CancellationEmail renders the cancellation notice.
func CancellationEmail(d AppointmentDetails) EmailMessage {
	var b strings.Builder
	fmt.Fprintf(&b, "Your appointment with %s on %s has been cancelled.\n",
		d.DoctorName, d.Time.Format("Monday, January 2 2006 at 3:04 PM"))
	b.WriteString("The slot has been released. You can book a new appointment at any time.\n")

	return EmailMessage{
		To:      d.UserEmail,
		Subject: fmt.Sprintf("Appointment cancelled: %s, %s", d.DoctorName, d.Time.Format("Jan 2 3:04 PM")),
		Body:    b.String(),
	}
}
