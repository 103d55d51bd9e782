package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/clinicdesk/receptionist/internal/scheduling"
)

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// writeDomainError maps scheduling rejections onto HTTP statuses. Anything
// without a domain code is an infrastructure failure and hides its detail
// behind a 503.
func writeDomainError(w http.ResponseWriter, err error) {
	code, ok := scheduling.CodeOf(err)
	if !ok {
		writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: "service temporarily unavailable"})
		return
	}
	writeJSON(w, statusFor(code), errorBody{Error: err.Error(), Code: string(code)})
}

func statusFor(code scheduling.Code) int {
	switch code {
	case scheduling.CodePastDate:
		return http.StatusBadRequest
	case scheduling.CodeInvalidSlot:
		return http.StatusUnprocessableEntity
	case scheduling.CodeDoctorNotFound, scheduling.CodeNotFound, scheduling.CodeNoSlotsFound:
		return http.StatusNotFound
	case scheduling.CodeUserConflict, scheduling.CodeSlotBooked, scheduling.CodeInvalidTransition:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
