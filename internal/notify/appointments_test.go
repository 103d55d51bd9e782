package notify

import (
	"strings"
	"testing"
	"time"
)

func TestConfirmationEmail(t *testing.T) {
	msg := ConfirmationEmail(AppointmentDetails{
		UserEmail:  "ana@example.com",
		DoctorName: "Dr. Smith",
		Disease:    "fever",
		Time:       time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
		QRCodePath: "qr/42.png",
	})

	if msg.To != "ana@example.com" {
		t.Errorf("To = %q", msg.To)
	}
	if !strings.Contains(msg.Subject, "Dr. Smith") {
		t.Errorf("subject missing doctor: %q", msg.Subject)
	}
	for _, want := range []string{"Dr. Smith", "Monday, March 2 2026", "fever", "qr/42.png"} {
		if !strings.Contains(msg.Body, want) {
			t.Errorf("body missing %q:\n%s", want, msg.Body)
		}
	}
}

func TestConfirmationEmailOmitsEmptyFields(t *testing.T) {
	msg := ConfirmationEmail(AppointmentDetails{
		UserEmail:  "ana@example.com",
		DoctorName: "Dr. Smith",
		Time:       time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
	})
	if strings.Contains(msg.Body, "Reason for visit") || strings.Contains(msg.Body, "QR code") {
		t.Errorf("body mentions absent fields:\n%s", msg.Body)
	}
}

func TestCancellationEmail(t *testing.T) {
	msg := CancellationEmail(AppointmentDetails{
		UserEmail:  "ana@example.com",
		DoctorName: "Dr. Jones",
		Time:       time.Date(2026, 3, 2, 14, 30, 0, 0, time.UTC),
	})
	if !strings.Contains(msg.Body, "has been cancelled") {
		t.Errorf("body: %s", msg.Body)
	}
	if !strings.Contains(msg.Subject, "cancelled") {
		t.Errorf("subject: %s", msg.Subject)
	}
}
