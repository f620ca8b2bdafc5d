package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig error: %v", err)
	}

	if cfg.Scale != "0-100" {
		t.Errorf("Scale = %q, want 0-100", cfg.Scale)
	}
	if len(cfg.Formats) != 1 || cfg.Formats[0] != "html" {
		t.Errorf("Formats = %v, want [html]", cfg.Formats)
	}
	if cfg.Cache.Backend != "file" {
		t.Errorf("Cache.Backend = %q, want file", cfg.Cache.Backend)
	}
	if cfg.Archive.Backend != "none" {
		t.Errorf("Archive.Backend = %q, want none", cfg.Archive.Backend)
	}
	if cfg.Preview.Addr != "localhost:8321" {
		t.Errorf("Preview.Addr = %q", cfg.Preview.Addr)
	}
}

func TestLoadConfigFile(t *testing.T) {
	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)

	dir := filepath.Join(configHome, appName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	body := `
scale = "legacy"
formats = ["html", "pdf"]

[cache]
backend = "redis"
redis_addr = "localhost:6379"

[preview]
addr = "localhost:9000"
`
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig error: %v", err)
	}

	if cfg.Scale != "legacy" {
		t.Errorf("Scale = %q, want legacy", cfg.Scale)
	}
	if len(cfg.Formats) != 2 || cfg.Formats[1] != "pdf" {
		t.Errorf("Formats = %v", cfg.Formats)
	}
	if cfg.Cache.Backend != "redis" || cfg.Cache.RedisAddr != "localhost:6379" {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Preview.Addr != "localhost:9000" {
		t.Errorf("Preview.Addr = %q", cfg.Preview.Addr)
	}
	// Unset keys keep their defaults.
	if cfg.PNGWidth != 794 {
		t.Errorf("PNGWidth = %d, want 794", cfg.PNGWidth)
	}
}

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")

	dir, err := cacheDir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != filepath.Join("/tmp/xdg-cache", appName) {
		t.Errorf("cacheDir = %q", dir)
	}
}

func TestParseFormats(t *testing.T) {
	cfg := defaultConfig()

	if got := parseFormats("", cfg); len(got) != 1 || got[0] != "html" {
		t.Errorf("parseFormats(\"\") = %v", got)
	}
	if got := parseFormats("pdf,png", cfg); len(got) != 2 || got[0] != "pdf" || got[1] != "png" {
		t.Errorf("parseFormats(\"pdf,png\") = %v", got)
	}
}
