package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))

	if cfg.Cache.Backend != cacheBackendFile {
		t.Errorf("Backend = %q, want %q", cfg.Cache.Backend, cacheBackendFile)
	}
	if cfg.Serve.Addr != ":8432" {
		t.Errorf("Addr = %q, want :8432", cfg.Serve.Addr)
	}
	if cfg.Width != 0 || cfg.Height != 0 {
		t.Errorf("canvas defaults = %vx%v, want unset", cfg.Width, cfg.Height)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
width = 1024
height = 768
ignore_lengths = true

[cache]
backend = "redis"
redis_addr = "localhost:6379"

[serve]
addr = ":9000"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg := LoadConfig(path)
	if cfg.Width != 1024 || cfg.Height != 768 {
		t.Errorf("canvas = %vx%v, want 1024x768", cfg.Width, cfg.Height)
	}
	if !cfg.IgnoreLengths {
		t.Error("IgnoreLengths not loaded")
	}
	if cfg.Cache.Backend != cacheBackendRedis || cfg.Cache.RedisAddr != "localhost:6379" {
		t.Errorf("cache config = %+v", cfg.Cache)
	}
	if cfg.Serve.Addr != ":9000" {
		t.Errorf("Addr = %q, want :9000", cfg.Serve.Addr)
	}
}

func TestLoadConfigMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("width = [not toml"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	// A broken optional file falls back to defaults instead of failing startup.
	cfg := LoadConfig(path)
	if cfg.Cache.Backend != cacheBackendFile {
		t.Errorf("Backend = %q, want %q", cfg.Cache.Backend, cacheBackendFile)
	}
}

func TestLoadConfigPartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("width = 500\n"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg := LoadConfig(path)
	if cfg.Width != 500 {
		t.Errorf("Width = %v, want 500", cfg.Width)
	}
	// Unset sections keep their defaults.
	if cfg.Cache.Backend != cacheBackendFile {
		t.Errorf("Backend = %q, want %q", cfg.Cache.Backend, cacheBackendFile)
	}
	if cfg.Serve.Addr != ":8432" {
		t.Errorf("Addr = %q, want :8432", cfg.Serve.Addr)
	}
}
