package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/clinicdesk/receptionist/internal/visitors"
	"github.com/clinicdesk/receptionist/pkg/logging"
)

// VisitorsHandler exposes the append-only front-desk visitor log.
type VisitorsHandler struct {
	repo   visitors.Repository
	logger *logging.Logger
	now    func() time.Time
}

func NewVisitorsHandler(repo visitors.Repository, logger *logging.Logger) *VisitorsHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &VisitorsHandler{repo: repo, logger: logger, now: time.Now}
}

// CheckIn handles POST /visitors.
func (h *VisitorsHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	var req visitors.CheckInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		if errors.Is(err, visitors.ErrInvalidName) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	visit := &visitors.Visit{
		Name:      req.Name,
		Purpose:   req.Purpose,
		Company:   req.Company,
		PhotoPath: req.PhotoPath,
		CheckedIn: h.now().UTC(),
	}
	if _, err := h.repo.CheckIn(r.Context(), visit); err != nil {
		h.logger.Error("visitor check-in failed", "error", err)
		writeError(w, http.StatusServiceUnavailable, "service temporarily unavailable")
		return
	}
	writeJSON(w, http.StatusCreated, visit)
}

// List handles GET /visitors. Defaults to today's log in the absence of
// from/to query parameters (RFC 3339).
func (h *VisitorsHandler) List(w http.ResponseWriter, r *http.Request) {
	now := h.now().UTC()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)

	if raw := r.URL.Query().Get("from"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid from parameter")
			return
		}
		from = parsed
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid to parameter")
			return
		}
		to = parsed
	}
	if !to.After(from) {
		writeError(w, http.StatusBadRequest, "to must be after from")
		return
	}

	visits, err := h.repo.ListRange(r.Context(), from, to)
	if err != nil {
		h.logger.Error("visitor list failed", "error", err)
		writeError(w, http.StatusServiceUnavailable, "service temporarily unavailable")
		return
	}
	if visits == nil {
		visits = []visitors.Visit{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"visitors": visits, "count": len(visits)})
}
