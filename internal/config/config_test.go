package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaultsForLocalDevelopment(t *testing.T) {
	t.Setenv("SCHOLARDASH_ENV", "dev")
	t.Setenv("SCHOLARDASH_PROVIDER_URL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Fatalf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Provider.BaseURL != localProviderURL {
		t.Fatalf("expected local provider fallback, got %q", cfg.Provider.BaseURL)
	}
	if cfg.Storage.RosterPath != filepath.Join("data", "faculty.json") {
		t.Fatalf("unexpected roster path %q", cfg.Storage.RosterPath)
	}
	if cfg.Storage.CachePath != filepath.Join("data", "cache.json") {
		t.Fatalf("unexpected cache path %q", cfg.Storage.CachePath)
	}
	if !cfg.Storage.HistoryEnabled || cfg.Storage.HistoryPath != filepath.Join("data", "history") {
		t.Fatalf("unexpected history config: %+v", cfg.Storage)
	}
	if cfg.Pipeline.MinFetchDelay != 2*time.Second {
		t.Fatalf("expected 2s fetch delay, got %s", cfg.Pipeline.MinFetchDelay)
	}
	if cfg.Pipeline.CacheMaxAge != 24*time.Hour {
		t.Fatalf("expected 24h cache max age, got %s", cfg.Pipeline.CacheMaxAge)
	}
}

func TestLoadRequiresProviderURLOutsideLocal(t *testing.T) {
	t.Setenv("SCHOLARDASH_ENV", "production")
	t.Setenv("SCHOLARDASH_PROVIDER_URL", "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for missing provider URL in production")
	}
}

func TestLoadForToolAllowsMissingProviderURL(t *testing.T) {
	t.Setenv("SCHOLARDASH_ENV", "production")
	t.Setenv("SCHOLARDASH_PROVIDER_URL", "")

	cfg, err := LoadForTool()
	if err != nil {
		t.Fatalf("expected no error for tool config load, got %v", err)
	}
	if cfg.Provider.BaseURL != "" {
		t.Fatalf("expected empty provider URL for tool load, got %q", cfg.Provider.BaseURL)
	}
}

func TestLoadDerivesStoragePathsFromDataDir(t *testing.T) {
	t.Setenv("SCHOLARDASH_ENV", "dev")
	t.Setenv("SCHOLARDASH_DATA_DIR", "/var/lib/scholardash")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Storage.RosterPath != filepath.Join("/var/lib/scholardash", "faculty.json") {
		t.Fatalf("unexpected roster path %q", cfg.Storage.RosterPath)
	}
	if cfg.Storage.HistoryPath != filepath.Join("/var/lib/scholardash", "history") {
		t.Fatalf("unexpected history path %q", cfg.Storage.HistoryPath)
	}

	t.Setenv("SCHOLARDASH_ROSTER_FILE", "/etc/roster.json")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Storage.RosterPath != "/etc/roster.json" {
		t.Fatalf("expected explicit roster path to win, got %q", cfg.Storage.RosterPath)
	}
}

func TestLoadClampsOutOfRangeValues(t *testing.T) {
	t.Setenv("SCHOLARDASH_ENV", "dev")
	t.Setenv("SCHOLARDASH_PROVIDER_RETRIES", "99")
	t.Setenv("SCHOLARDASH_PROVIDER_TIMEOUT", "1ms")
	t.Setenv("SCHOLARDASH_CACHE_MAX_AGE", "5s")
	t.Setenv("SCHOLARDASH_FETCH_MIN_DELAY", "750ms")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Provider.MaxRetries != 10 {
		t.Fatalf("expected retries clamped to 10, got %d", cfg.Provider.MaxRetries)
	}
	if cfg.Provider.Timeout != time.Second {
		t.Fatalf("expected timeout clamped to 1s, got %s", cfg.Provider.Timeout)
	}
	if cfg.Pipeline.CacheMaxAge != time.Minute {
		t.Fatalf("expected max age clamped to 1m, got %s", cfg.Pipeline.CacheMaxAge)
	}
	if cfg.Pipeline.MinFetchDelay != 750*time.Millisecond {
		t.Fatalf("expected 750ms delay kept, got %s", cfg.Pipeline.MinFetchDelay)
	}
}

func TestLoadRejectsInvalidPort(t *testing.T) {
	t.Setenv("SCHOLARDASH_ENV", "dev")
	t.Setenv("SCHOLARDASH_PORT", "70000")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for out of range port")
	}
}
