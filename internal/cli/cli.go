// Package cli implements the harmonic command-line interface.
//
// The commands wrap the layout pipeline: layout solves a graph document into
// a layout file, render turns a layout file into SVG, PNG, PDF or DOT, run
// does both, view shows a layout in the terminal and serve exposes the same
// operations over HTTP. Settings come from a TOML config file, environment
// variables and flags, in increasing order of precedence.
package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/harmonic/pkg/buildinfo"
	"github.com/matzehuels/harmonic/pkg/cache"
	"github.com/matzehuels/harmonic/pkg/observability"
	"github.com/matzehuels/harmonic/pkg/pipeline"
)

// appName is the application name used for directories and display.
const appName = "harmonic"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger     *log.Logger
	Config     Config
	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: defaultConfig(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Harmonic lays out graphs by solving the Laplace equation",
		Long: `Harmonic places every free node of a graph at the average of its
neighbours while a chosen set of nodes stays pinned. The result is the unique
harmonic embedding of the graph, solved with a single LU factorization.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(c.configPath)
			if err != nil {
				return err
			}
			c.Config = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			if c.Logger.GetLevel() <= log.DebugLevel {
				registerLogHooks(c.Logger)
			}
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/harmonic/config.toml)")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.runCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. Cache keys are scoped by
// release so entries written by another build are never read back.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	store, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), buildinfo.CacheScope())
	return pipeline.NewRunner(store, keyer, c.Logger), nil
}

// newCache opens the configured cache backend.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	cfg := c.Config.Cache
	if noCache || cfg.Backend == backendNone {
		return cache.NewNullCache(), nil
	}

	var (
		store cache.Cache
		err   error
	)
	switch cfg.Backend {
	case backendRedis:
		store, err = cache.NewRedisCache(ctx, cfg.RedisURL)
	case backendSQLite:
		path := cfg.SQLitePath
		if path == "" {
			dir, derr := cacheDir()
			if derr != nil {
				return nil, derr
			}
			path = filepath.Join(dir, "cache.db")
		}
		store, err = cache.NewSQLiteCache(path)
	default:
		dir := cfg.Dir
		if dir == "" {
			d, derr := cacheDir()
			if derr != nil {
				c.Logger.Warn("cache directory unavailable, caching disabled", "error", derr)
				return cache.NewNullCache(), nil
			}
			dir = d
		}
		store, err = cache.NewFileCache(dir)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s cache: %w", cfg.Backend, err)
	}

	if cfg.TTL.Duration > 0 {
		return cache.NewCappedCache(store, cfg.TTL.Duration), nil
	}
	return store, nil
}

// registerLogHooks reports pipeline and cache events at debug level.
func registerLogHooks(l *log.Logger) {
	h := &logHooks{logger: l}
	observability.SetPipelineHooks(h)
	observability.SetCacheHooks(h)
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	var formats []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(strings.ToLower(f)); f != "" {
			formats = append(formats, f)
		}
	}
	return formats
}

// outputPath derives the output file for input with a new suffix, e.g.
// "fan.json" + ".layout.json" -> "fan.layout.json".
func outputPath(input, suffix string) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	base = strings.TrimSuffix(base, ".layout")
	return base + suffix
}
