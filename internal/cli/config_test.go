package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/harmonic/pkg/pipeline"
)

func TestLoadConfigMissingDefault(t *testing.T) {
	isolate(t)
	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Cache.Backend != backendFile || cfg.Render.Width != pipeline.DefaultWidth || cfg.Server.Addr != ":8080" {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestLoadConfigMissingExplicit(t *testing.T) {
	isolate(t)
	if _, err := loadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("loadConfig should fail for a missing --config file")
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config", appName, "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Dir(path), "config.toml", `
[cache]
backend = "sqlite"
sqlite_path = "/var/cache/harmonic.db"
ttl = "72h"

[render]
width = 1024
style = "nodelink"
labels = false

[server]
addr = "127.0.0.1:9000"
rate_limit = 2.5
burst = 5
`)

	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Cache.Backend != backendSQLite || cfg.Cache.SQLitePath != "/var/cache/harmonic.db" {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.Cache.TTL.Duration != 72*time.Hour {
		t.Errorf("ttl = %v, want 72h", cfg.Cache.TTL.Duration)
	}
	if cfg.Render.Width != 1024 || cfg.Render.Height != pipeline.DefaultHeight || cfg.Render.Style != pipeline.StyleNodelink {
		t.Errorf("render = %+v", cfg.Render)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" || cfg.Server.RateLimit != 2.5 || cfg.Server.Burst != 5 {
		t.Errorf("server = %+v", cfg.Server)
	}

	var opts pipeline.Options
	opts.Width = 300
	cfg.applyRender(&opts)
	if opts.Width != 300 || opts.Height != pipeline.DefaultHeight || opts.Style != pipeline.StyleNodelink || !opts.HideLabels {
		t.Errorf("applyRender = %+v", opts)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv(envRedisURL, "redis://localhost:6379/0")
	t.Setenv(envServerAddr, ":9999")

	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Cache.Backend != backendRedis || cfg.Cache.RedisURL != "redis://localhost:6379/0" {
		t.Errorf("redis url should select the redis backend: %+v", cfg.Cache)
	}
	if cfg.Server.Addr != ":9999" {
		t.Errorf("addr = %q, want :9999", cfg.Server.Addr)
	}

	t.Setenv(envCacheBackend, backendNone)
	cfg, err = loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Cache.Backend != backendNone {
		t.Errorf("explicit backend should win over the redis url, got %q", cfg.Cache.Backend)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"backend", "[cache]\nbackend = \"memcached\"\n"},
		{"style", "[render]\nstyle = \"tower\"\n"},
		{"ttl", "[cache]\nttl = \"soon\"\n"},
		{"syntax", "[cache\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := isolate(t)
			path := writeFile(t, dir, "config.toml", tt.content)
			if _, err := loadConfig(path); err == nil {
				t.Errorf("loadConfig should reject %s", tt.name)
			}
		})
	}
}

func TestConfigPathXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/custom-config")
	got, err := configPath()
	if err != nil {
		t.Fatalf("configPath: %v", err)
	}
	if want := filepath.Join("/tmp/custom-config", appName, "config.toml"); got != want {
		t.Errorf("configPath() = %q, want %q", got, want)
	}
}
