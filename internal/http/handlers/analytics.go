package handlers

import (
	"net/http"
	"time"

	"github.com/clinicdesk/receptionist/internal/analytics"
	"github.com/clinicdesk/receptionist/pkg/logging"
)

// AnalyticsHandler serves the read-only dashboard summary.
type AnalyticsHandler struct {
	store  analytics.Summarizer
	logger *logging.Logger
	now    func() time.Time
}

func NewAnalyticsHandler(store analytics.Summarizer, logger *logging.Logger) *AnalyticsHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &AnalyticsHandler{store: store, logger: logger, now: time.Now}
}

// Summary handles GET /analytics/summary. Defaults to the trailing 30 days.
func (h *AnalyticsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	to := h.now().UTC()
	from := to.AddDate(0, 0, -30)

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

	summary, err := h.store.Summary(r.Context(), from, to)
	if err != nil {
		h.logger.Error("analytics summary failed", "error", err)
		writeError(w, http.StatusServiceUnavailable, "service temporarily unavailable")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
