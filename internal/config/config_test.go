package config

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/interview")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Port != "8084" {
		t.Fatalf("expected default port, got %s", cfg.Port)
	}
	if !cfg.ReaperEnabled || cfg.ReaperMaxIdle != 24*time.Hour || cfg.ReaperBatch != 100 {
		t.Fatalf("unexpected reaper defaults: %+v", cfg)
	}
}

func TestLoadConfigRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error without DATABASE_URL")
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/interview")
	t.Setenv("PORT", "9000")
	t.Setenv("REAPER_ENABLED", "false")
	t.Setenv("REAPER_MAX_IDLE", "2h")
	t.Setenv("REAPER_BATCH", "5")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Port != "9000" || cfg.ReaperEnabled || cfg.ReaperMaxIdle != 2*time.Hour || cfg.ReaperBatch != 5 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestLoadConfigRejectsBadMaxIdle(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/interview")
	t.Setenv("REAPER_MAX_IDLE", "soon")

	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error for malformed REAPER_MAX_IDLE")
	}
}
