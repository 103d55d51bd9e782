package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/clinicdesk/receptionist/internal/http/middleware"
	"github.com/clinicdesk/receptionist/internal/scheduling"
	"github.com/clinicdesk/receptionist/pkg/logging"
)

// AppointmentsHandler exposes booking, cancellation, search and history.
// Every endpoint acts as the authenticated identity from the bearer token.
type AppointmentsHandler struct {
	engine *scheduling.Engine
	logger *logging.Logger
}

func NewAppointmentsHandler(engine *scheduling.Engine, logger *logging.Logger) *AppointmentsHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &AppointmentsHandler{engine: engine, logger: logger}
}

type bookRequest struct {
	DoctorName string    `json:"doctor_name"`
	Disease    string    `json:"disease"`
	Time       time.Time `json:"time"`
}

// Book handles POST /appointments.
func (h *AppointmentsHandler) Book(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req bookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.DoctorName == "" || req.Time.IsZero() {
		writeError(w, http.StatusBadRequest, "doctor_name and time are required")
		return
	}

	appt, err := h.engine.Book(r.Context(), scheduling.BookRequest{
		UserEmail:  identity.Email,
		DoctorName: req.DoctorName,
		Disease:    req.Disease,
		Time:       req.Time,
	})
	if err != nil {
		if scheduling.IsInfrastructure(err) {
			h.logger.Error("booking failed", "error", err, "user", identity.Email)
		}
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, appt)
}

type cancelRequest struct {
	Time time.Time `json:"time"`
}

// Cancel handles POST /appointments/cancel.
func (h *AppointmentsHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req cancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Time.IsZero() {
		writeError(w, http.StatusBadRequest, "time is required")
		return
	}

	appt, err := h.engine.Cancel(r.Context(), identity.Email, req.Time)
	if err != nil {
		if scheduling.IsInfrastructure(err) {
			h.logger.Error("cancellation failed", "error", err, "user", identity.Email)
		}
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, appt)
}

// NextAvailable handles GET /appointments/next-available.
func (h *AppointmentsHandler) NextAvailable(w http.ResponseWriter, r *http.Request) {
	req := scheduling.NextAvailableRequest{
		DoctorName: r.URL.Query().Get("doctor"),
		Disease:    r.URL.Query().Get("disease"),
	}

	slot, err := h.engine.FindNextAvailable(r.Context(), req)
	if err != nil {
		if scheduling.IsInfrastructure(err) {
			h.logger.Error("availability search failed", "error", err)
		}
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, slot)
}

// History handles GET /appointments. The audit view keeps soft-deleted rows
// visible when include_deleted=true.
func (h *AppointmentsHandler) History(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	includeDeleted := r.URL.Query().Get("include_deleted") == "true"
	appts, err := h.engine.ListForUser(r.Context(), identity.Email, includeDeleted)
	if err != nil {
		h.logger.Error("history lookup failed", "error", err, "user", identity.Email)
		writeDomainError(w, err)
		return
	}
	if appts == nil {
		appts = []scheduling.Appointment{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"appointments": appts, "count": len(appts)})
}
