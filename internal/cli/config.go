package cli

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Cache backend names accepted in the config file.
const (
	cacheBackendFile  = "file"
	cacheBackendRedis = "redis"
	cacheBackendOff   = "off"
)

// Config holds user-level defaults loaded from the config file.
// Command-line flags override config values, which override built-in
// defaults.
type Config struct {
	// Canvas defaults for layout computation.
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`

	// IgnoreLengths draws a length-agnostic cladogram by default.
	IgnoreLengths bool `toml:"ignore_lengths"`

	Cache CacheConfig `toml:"cache"`
	Serve ServeConfig `toml:"serve"`
}

// CacheConfig selects and configures the layout cache backend.
type CacheConfig struct {
	// Backend is "file" (default), "redis", or "off".
	Backend string `toml:"backend"`

	// Dir overrides the file backend's directory (default ~/.cache/phyloscope).
	Dir string `toml:"dir"`

	// RedisAddr is the host:port for the redis backend.
	RedisAddr string `toml:"redis_addr"`
}

// ServeConfig configures the HTTP API server.
type ServeConfig struct {
	// Addr is the listen address (default ":8432").
	Addr string `toml:"addr"`
}

// defaultConfig returns the built-in defaults applied when no config file
// exists or a field is unset.
func defaultConfig() *Config {
	return &Config{
		Cache: CacheConfig{Backend: cacheBackendFile},
		Serve: ServeConfig{Addr: ":8432"},
	}
}

// LoadDefaultConfig loads the user's config file from the XDG config
// directory (~/.config/phyloscope/config.toml). A missing or unreadable
// file yields the built-in defaults; a present but malformed file does too,
// since startup should not fail over a bad optional file.
func LoadDefaultConfig() *Config {
	path, err := configPath()
	if err != nil {
		return defaultConfig()
	}
	return LoadConfig(path)
}

// LoadConfig loads a config file from path, falling back to defaults for
// anything missing.
func LoadConfig(path string) *Config {
	cfg := defaultConfig()
	if _, err := os.Stat(path); err != nil {
		return cfg
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return defaultConfig()
	}
	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = cacheBackendFile
	}
	if cfg.Serve.Addr == "" {
		cfg.Serve.Addr = ":8432"
	}
	return cfg
}

// configPath returns the config file location using the XDG standard.
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}
