package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.SlotMinutes != 30 {
		t.Errorf("expected 30 minute slots, got %d", cfg.SlotMinutes)
	}
	if cfg.WorkingHoursStart != "09:00" || cfg.WorkingHoursEnd != "17:00" {
		t.Errorf("unexpected working hours: %s-%s", cfg.WorkingHoursStart, cfg.WorkingHoursEnd)
	}
	if cfg.SearchHorizonDays != 7 {
		t.Errorf("expected 7 day horizon, got %d", cfg.SearchHorizonDays)
	}
	if cfg.StoreTimeout != 5*time.Second {
		t.Errorf("expected 5s store timeout, got %s", cfg.StoreTimeout)
	}
	if len(cfg.WorkingDays) != 5 {
		t.Errorf("expected Mon-Fri default, got %v", cfg.WorkingDays)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SLOT_MINUTES", "15")
	t.Setenv("SEARCH_HORIZON_DAYS", "14")
	t.Setenv("STORE_TIMEOUT", "2s")
	t.Setenv("WORKING_DAYS", "Mon, Wed ,Fri")
	t.Setenv("REDIS_TLS", "true")

	cfg := Load()

	if cfg.SlotMinutes != 15 {
		t.Errorf("expected 15 minute slots, got %d", cfg.SlotMinutes)
	}
	if cfg.SearchHorizonDays != 14 {
		t.Errorf("expected 14 day horizon, got %d", cfg.SearchHorizonDays)
	}
	if cfg.StoreTimeout != 2*time.Second {
		t.Errorf("expected 2s store timeout, got %s", cfg.StoreTimeout)
	}
	if len(cfg.WorkingDays) != 3 || cfg.WorkingDays[1] != "Wed" {
		t.Errorf("expected trimmed working days, got %v", cfg.WorkingDays)
	}
	if !cfg.RedisTLS {
		t.Error("expected RedisTLS true")
	}
}
