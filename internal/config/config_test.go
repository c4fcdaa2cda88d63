package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Quota.DailyLimit != DefaultDailyLimit {
		t.Fatalf("expected daily limit %d, got %d", DefaultDailyLimit, cfg.Quota.DailyLimit)
	}
	if cfg.Quota.FailClosed {
		t.Fatalf("expected fail-open default")
	}
	if cfg.Quota.Backend != BackendMemory {
		t.Fatalf("expected memory backend with no DSN, got %q", cfg.Quota.Backend)
	}
	if cfg.HTTP.Addr != ":8080" {
		t.Fatalf("unexpected addr %q", cfg.HTTP.Addr)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("QUOTA_DAILY_LIMIT", "25")
	t.Setenv("QUOTA_FAIL_CLOSED", "true")
	t.Setenv("BURST_WINDOW", "30s")
	t.Setenv("DATABASE_URL", "postgres://localhost/quota")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Quota.DailyLimit != 25 {
		t.Fatalf("expected 25, got %d", cfg.Quota.DailyLimit)
	}
	if !cfg.Quota.FailClosed {
		t.Fatalf("expected fail-closed")
	}
	if cfg.Burst.Window != 30*time.Second {
		t.Fatalf("expected 30s window, got %v", cfg.Burst.Window)
	}
	if cfg.Quota.Backend != BackendPostgres {
		t.Fatalf("expected postgres backend inferred from DSN, got %q", cfg.Quota.Backend)
	}
	if !cfg.Retention.Enabled {
		t.Fatalf("expected retention enabled on postgres backend")
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("QUOTA_DAILY_LIMIT", "0")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for zero daily limit")
	}

	t.Setenv("QUOTA_DAILY_LIMIT", "10")
	t.Setenv("QUOTA_BACKEND", "cassandra")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}
