package scheduling

import (
	"errors"
	"fmt"
)

// Code identifies a domain failure. The set is closed: callers switch on it
// and must never see an unlisted value.
type Code string

const (
	CodePastDate          Code = "PAST_DATE"
	CodeDoctorNotFound    Code = "DOCTOR_NOT_FOUND"
	CodeInvalidSlot       Code = "INVALID_SLOT"
	CodeUserConflict      Code = "USER_CONFLICT"
	CodeSlotBooked        Code = "SLOT_BOOKED"
	CodeNotFound          Code = "NOT_FOUND"
	CodeNoSlotsFound      Code = "NO_SLOTS_FOUND"
	CodeInvalidTransition Code = "INVALID_TRANSITION"
)

// DomainError is a business-rule rejection. It is never retryable as-is;
// infrastructure failures travel on a separate channel (plain wrapped errors).
type DomainError struct {
	Code    Code
	Message string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func domainErrorf(code Code, format string, args ...any) *DomainError {
	return &DomainError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// CodeOf extracts the domain code from an error chain.
func CodeOf(err error) (Code, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code, true
	}
	return "", false
}

// IsInfrastructure reports whether the error is a transport/store failure
// rather than a domain rejection. Callers may retry these.
func IsInfrastructure(err error) bool {
	if err == nil {
		return false
	}
	_, ok := CodeOf(err)
	return !ok
}
