package cli

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// appName is the application name used for directories and display.
const appName = "capreport"

// Config holds user preferences loaded from the config file. Flags always
// override config values; config values override built-in defaults.
type Config struct {
	// Scale is the default input scale ("0-100" or "legacy").
	Scale string `toml:"scale"`

	// Formats is the default output format list.
	Formats []string `toml:"formats"`

	// PNGWidth is the viewport width for PNG export.
	PNGWidth int `toml:"png_width"`

	Cache   CacheConfig   `toml:"cache"`
	Archive ArchiveConfig `toml:"archive"`
	Preview PreviewConfig `toml:"preview"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	// Backend is "file", "redis", or "none". Defaults to "file".
	Backend string `toml:"backend"`

	// RedisAddr is the redis host:port for the redis backend.
	RedisAddr string `toml:"redis_addr"`

	// RedisPassword authenticates the redis connection.
	RedisPassword string `toml:"redis_password"`

	// RedisDB selects the redis database number.
	RedisDB int `toml:"redis_db"`
}

// ArchiveConfig selects and configures artifact retention.
type ArchiveConfig struct {
	// Backend is "file", "mongo", or "none". Defaults to "none"; archiving
	// is opt-in via the --archive flag.
	Backend string `toml:"backend"`

	// Dir is the archive directory for the file backend.
	Dir string `toml:"dir"`

	// MongoURI is the connection string for the mongo backend.
	MongoURI string `toml:"mongo_uri"`

	// MongoDatabase overrides the default database name.
	MongoDatabase string `toml:"mongo_database"`
}

// PreviewConfig configures the preview server.
type PreviewConfig struct {
	// Addr is the listen address. Defaults to "localhost:8321".
	Addr string `toml:"addr"`
}

// defaultConfig returns the built-in defaults applied before the config
// file and flags.
func defaultConfig() Config {
	return Config{
		Scale:    "0-100",
		Formats:  []string{"html"},
		PNGWidth: 794,
		Cache:    CacheConfig{Backend: "file"},
		Archive:  ArchiveConfig{Backend: "none"},
		Preview:  PreviewConfig{Addr: "localhost:8321"},
	}
}

// loadConfig reads the config file if present and merges it over the
// defaults. A missing file is not an error.
func loadConfig() (Config, error) {
	cfg := defaultConfig()

	path, err := configPath()
	if err != nil {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// configPath returns the config file path using the XDG standard
// (~/.config/capreport/config.toml).
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

// cacheDir returns the cache directory using the XDG standard
// (~/.cache/capreport/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
