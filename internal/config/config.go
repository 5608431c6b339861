package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"preview-engine/internal/logging"

	"gopkg.in/yaml.v3"
)

// Config holds the engine's recognized options.
type Config struct {
	// CacheDir is the disk cache location. Empty disables the disk tier.
	CacheDir string `yaml:"cache_dir"`

	// MemoryCacheSize is the memory tier's maximum entry count.
	MemoryCacheSize int `yaml:"memory_cache_size"`

	// CacheTTLHours is the cache entry lifetime in hours.
	CacheTTLHours int `yaml:"cache_ttl_hours"`

	// MaxWorkers bounds the async worker pool. Zero means host-detected
	// concurrency.
	MaxWorkers int `yaml:"max_workers"`

	// ListenAddr is the HTTP API bind address.
	ListenAddr string `yaml:"listen_addr"`
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		MemoryCacheSize: 100,
		CacheTTLHours:   24,
		ListenAddr:      ":8080",
	}
}

// TTL returns the cache lifetime as a duration.
func (c Config) TTL() time.Duration {
	return time.Duration(c.CacheTTLHours) * time.Hour
}

// Load builds the configuration: defaults, then the YAML file named by
// PREVIEW_CONFIG_FILE (if set), then environment variable overrides.
//
// Recognized environment variables: PREVIEW_CACHE_DIR,
// PREVIEW_MEMORY_CACHE_SIZE, PREVIEW_CACHE_TTL_HOURS, PREVIEW_WORKERS,
// LISTEN_ADDR.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("PREVIEW_CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file: %w", err)
		}
		logging.Info("loaded config file %s", path)
	}

	applyEnv(&cfg)

	if cfg.MemoryCacheSize < 1 {
		logging.Warn("memory_cache_size %d out of range, using default 100", cfg.MemoryCacheSize)
		cfg.MemoryCacheSize = 100
	}
	if cfg.CacheTTLHours < 0 {
		logging.Warn("cache_ttl_hours %d out of range, using default 24", cfg.CacheTTLHours)
		cfg.CacheTTLHours = 24
	}

	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PREVIEW_CACHE_DIR"); v != "" {
		cfg.CacheDir = v
	}
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}

	setInt := func(name string, target *int) {
		v := os.Getenv(name)
		if v == "" {
			return
		}
		parsed, err := strconv.Atoi(v)
		if err != nil {
			logging.Warn("failed to parse %s %q: %v, keeping %d", name, v, err, *target)
			return
		}
		*target = parsed
	}

	setInt("PREVIEW_MEMORY_CACHE_SIZE", &cfg.MemoryCacheSize)
	setInt("PREVIEW_CACHE_TTL_HOURS", &cfg.CacheTTLHours)
	setInt("PREVIEW_WORKERS", &cfg.MaxWorkers)
}
