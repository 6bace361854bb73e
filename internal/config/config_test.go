package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.APIURL != DefaultAPIURL {
		t.Fatalf("expected default API URL, got %q", cfg.APIURL)
	}
	if cfg.LogLevel != DefaultLogLevel {
		t.Fatalf("expected default log level %q, got %q", DefaultLogLevel, cfg.LogLevel)
	}
	if cfg.Uploads.MaxUploadBytes != DefaultUploadMaxBytes {
		t.Fatalf("expected upload max default %d, got %d", DefaultUploadMaxBytes, cfg.Uploads.MaxUploadBytes)
	}
	if cfg.Metrics.TopDuplicateGroups != DefaultMetricsTopDuplicateGroups {
		t.Fatalf("expected top groups default %d, got %d", DefaultMetricsTopDuplicateGroups, cfg.Metrics.TopDuplicateGroups)
	}
	if cfg.ListCache.Capacity != DefaultListCacheCapacity {
		t.Fatalf("expected cache capacity default %d, got %d", DefaultListCacheCapacity, cfg.ListCache.Capacity)
	}
	if cfg.GC.BatchSize != DefaultGCBatchSize {
		t.Fatalf("expected gc batch default %d, got %d", DefaultGCBatchSize, cfg.GC.BatchSize)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)
	if err := os.WriteFile(path, []byte(`api_url = "http://localhost:9999"
log_level = "warn"

[uploads]
max_upload_bytes = 1024

[metrics]
top_duplicate_groups = 3
`), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg := Default()
	if err := loadFile(path, &cfg); err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIURL != "http://localhost:9999" {
		t.Fatalf("expected overridden api_url, got %q", cfg.APIURL)
	}
	if cfg.LogLevel != "warn" {
		t.Fatalf("expected log_level 'warn', got %q", cfg.LogLevel)
	}
	if cfg.Uploads.MaxUploadBytes != 1024 {
		t.Fatalf("expected max_upload_bytes 1024, got %d", cfg.Uploads.MaxUploadBytes)
	}
	if cfg.Metrics.TopDuplicateGroups != 3 {
		t.Fatalf("expected top_duplicate_groups 3, got %d", cfg.Metrics.TopDuplicateGroups)
	}
}

func TestLoadFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFile("/nonexistent/path/.filehub.toml", &cfg); err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if cfg.APIURL != DefaultAPIURL {
		t.Fatal("defaults should be preserved")
	}
}

func TestIsAllowedKey(t *testing.T) {
	for _, key := range AllowedKeys() {
		if !IsAllowedKey(key) {
			t.Fatalf("expected %q to be allowed", key)
		}
	}
	if IsAllowedKey("no_such_key") {
		t.Fatal("expected unknown key to be rejected")
	}
}

func TestSetKeyAndGet(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)

	if err := SetKey(path, "log_level", "debug"); err != nil {
		t.Fatalf("set log_level: %v", err)
	}
	if err := SetKey(path, "uploads.max_upload_bytes", "2048"); err != nil {
		t.Fatalf("set uploads.max_upload_bytes: %v", err)
	}

	cfg := Default()
	if err := loadFile(path, &cfg); err != nil {
		t.Fatalf("load: %v", err)
	}

	got, err := cfg.Get("log_level")
	if err != nil || got != "debug" {
		t.Fatalf("expected log_level debug, got %q (%v)", got, err)
	}
	got, err = cfg.Get("uploads.max_upload_bytes")
	if err != nil || got != "2048" {
		t.Fatalf("expected 2048, got %q (%v)", got, err)
	}
}

func TestSetKey_Validation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)

	if err := SetKey(path, "bogus", "1"); err == nil {
		t.Fatal("expected unknown key error")
	}
	if err := SetKey(path, "uploads.max_upload_bytes", "-5"); err == nil {
		t.Fatal("expected rejection of negative byte limit")
	}
	if err := SetKey(path, "gc.interval_seconds", "notanumber"); err == nil {
		t.Fatal("expected rejection of non-numeric interval")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv(configDirEnvKey, t.TempDir())
	t.Setenv("FILEHUB_API_URL", "http://example.test:1234")
	t.Setenv("FILEHUB_LOG_LEVEL", "error")
	t.Setenv("FILEHUB_ALLOWED_MEDIA_TYPES", "image/png, text/plain")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIURL != "http://example.test:1234" {
		t.Fatalf("expected env api url, got %q", cfg.APIURL)
	}
	if cfg.LogLevel != "error" {
		t.Fatalf("expected env log level, got %q", cfg.LogLevel)
	}
	if len(cfg.Uploads.AllowedMediaTypes) != 2 {
		t.Fatalf("expected 2 media types, got %v", cfg.Uploads.AllowedMediaTypes)
	}
	if cfg.Uploads.AllowedMediaTypes[0] != "image/png" || cfg.Uploads.AllowedMediaTypes[1] != "text/plain" {
		t.Fatalf("unexpected media types %v", cfg.Uploads.AllowedMediaTypes)
	}
}

func TestNormalizeConfiguredMediaTypes(t *testing.T) {
	got := normalizeConfiguredMediaTypes([]string{"Image/PNG", "image/png", "  ", "garbage//", "text/plain; charset=utf-8"})
	if len(got) != 2 {
		t.Fatalf("expected 2 normalized types, got %v", got)
	}
	if got[0] != "image/png" || got[1] != "text/plain" {
		t.Fatalf("unexpected normalization %v", got)
	}
}
