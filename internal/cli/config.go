package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/matzehuels/harmonic/pkg/pipeline"
)

// Cache backends selectable in the config file or HARMONIC_CACHE_BACKEND.
const (
	backendFile   = "file"
	backendRedis  = "redis"
	backendSQLite = "sqlite"
	backendNone   = "none"
)

// Environment variables that override the config file.
const (
	envCacheBackend = "HARMONIC_CACHE_BACKEND"
	envRedisURL     = "HARMONIC_REDIS_URL"
	envServerAddr   = "HARMONIC_SERVER_ADDR"
)

// Config is the on-disk CLI configuration.
type Config struct {
	Cache  CacheConfig  `toml:"cache"`
	Render RenderConfig `toml:"render"`
	Server ServerConfig `toml:"server"`
}

// CacheConfig selects and configures the layout/artifact cache.
type CacheConfig struct {
	Backend    string   `toml:"backend"`
	Dir        string   `toml:"dir"`
	RedisURL   string   `toml:"redis_url"`
	SQLitePath string   `toml:"sqlite_path"`
	TTL        duration `toml:"ttl"`
}

// RenderConfig holds render defaults. Flags override them.
type RenderConfig struct {
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	Style  string `toml:"style"`
	Labels *bool  `toml:"labels"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr      string  `toml:"addr"`
	RateLimit float64 `toml:"rate_limit"` // requests per second, 0 disables limiting
	Burst     int     `toml:"burst"`
	MaxNodes  int     `toml:"max_nodes"` // 0 selects the server default
}

// duration decodes TOML strings such as "72h".
type duration struct{ time.Duration }

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

// defaultConfig returns the configuration used when no file exists.
func defaultConfig() Config {
	return Config{
		Cache: CacheConfig{Backend: backendFile},
		Render: RenderConfig{
			Width:  pipeline.DefaultWidth,
			Height: pipeline.DefaultHeight,
			Style:  pipeline.DefaultStyle,
		},
		Server: ServerConfig{
			Addr:      ":8080",
			RateLimit: 10,
			Burst:     20,
		},
	}
}

// loadConfig reads the config file at path, or the default location when
// path is empty. A missing default file is not an error. A .env file in the
// working directory is loaded first so its variables can override values.
func loadConfig(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := defaultConfig()
	explicit := path != ""
	if !explicit {
		p, err := configPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if !explicit && os.IsNotExist(err) {
			cfg.applyEnv()
			return cfg, nil
		}
		return cfg, fmt.Errorf("load config %s: %w", path, err)
	}

	cfg.applyEnv()
	return cfg, cfg.validate()
}

func (c *Config) applyEnv() {
	if v := os.Getenv(envCacheBackend); v != "" {
		c.Cache.Backend = v
	}
	if v := os.Getenv(envRedisURL); v != "" {
		c.Cache.RedisURL = v
		if os.Getenv(envCacheBackend) == "" {
			c.Cache.Backend = backendRedis
		}
	}
	if v := os.Getenv(envServerAddr); v != "" {
		c.Server.Addr = v
	}
}

func (c *Config) validate() error {
	switch c.Cache.Backend {
	case backendFile, backendRedis, backendSQLite, backendNone:
	default:
		return fmt.Errorf("unknown cache backend %q", c.Cache.Backend)
	}
	if c.Render.Style != "" {
		if err := pipeline.ValidateStyle(c.Render.Style); err != nil {
			return err
		}
	}
	return nil
}

// applyRender copies render defaults into opts for fields left unset.
func (c *Config) applyRender(opts *pipeline.Options) {
	if opts.Width == 0 {
		opts.Width = c.Render.Width
	}
	if opts.Height == 0 {
		opts.Height = c.Render.Height
	}
	if opts.Style == "" {
		opts.Style = c.Render.Style
	}
	if c.Render.Labels != nil && !*c.Render.Labels {
		opts.HideLabels = true
	}
}

// =============================================================================
// Paths
// =============================================================================

// configPath returns the config file location using XDG standard
// (~/.config/harmonic/config.toml).
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

// cacheDir returns the cache directory using XDG standard (~/.cache/harmonic/).
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
