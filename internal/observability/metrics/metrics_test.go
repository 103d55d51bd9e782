package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestSchedulingMetricsCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewSchedulingMetrics(reg)

	m.ObserveBook("ok")
	m.ObserveBook("ok")
	m.ObserveBook("SLOT_BOOKED")
	m.ObserveCancel("ok")
	m.ObserveSearch("ok", 0.05)

	if got := testutil.ToFloat64(m.bookTotal.WithLabelValues("ok")); got != 2 {
		t.Errorf("book ok count = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.bookTotal.WithLabelValues("SLOT_BOOKED")); got != 1 {
		t.Errorf("book SLOT_BOOKED count = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.cancelTotal.WithLabelValues("ok")); got != 1 {
		t.Errorf("cancel ok count = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.searchOutcomes.WithLabelValues("ok")); got != 1 {
		t.Errorf("search ok count = %v, want 1", got)
	}
}

func TestNilMetricsSafe(t *testing.T) {
	var m *SchedulingMetrics
	m.ObserveBook("ok")
	m.ObserveCancel("ok")
	m.ObserveSearch("ok", 0)
}
