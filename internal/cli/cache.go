package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/harmonic/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the layout and artifact cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())
	cmd.AddCommand(c.cachePruneCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached layouts and artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.newCache(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer store.Close()

			cleared, err := cache.Clear(cmd.Context(), store)
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			if !cleared {
				printInfo("Cache backend %q has nothing to clear", c.Config.Cache.Backend)
				return nil
			}
			printSuccess("Cache cleared")
			printDetail("Backend: %s", c.Config.Cache.Backend)
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where the cache lives",
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := c.cacheLocation()
			if err != nil {
				return err
			}
			printKeyValue(c.Config.Cache.Backend, loc)
			return nil
		},
	}
}

// cachePruneCommand creates the "cache prune" subcommand.
func (c *CLI) cachePruneCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Delete expired entries (sqlite backend)",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.newCache(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer store.Close()

			sq, ok := unwrapCache(store).(*cache.SQLiteCache)
			if !ok {
				printWarning("prune only applies to the sqlite backend; other backends expire entries on read")
				return nil
			}
			n, err := sq.Prune(cmd.Context())
			if err != nil {
				return fmt.Errorf("prune cache: %w", err)
			}
			printSuccess("Pruned %d expired entries", n)
			return nil
		},
	}
}

// cacheLocation describes where the configured backend stores entries.
func (c *CLI) cacheLocation() (string, error) {
	cfg := c.Config.Cache
	switch cfg.Backend {
	case backendNone:
		return "(disabled)", nil
	case backendRedis:
		return cfg.RedisURL, nil
	case backendSQLite:
		if cfg.SQLitePath != "" {
			return cfg.SQLitePath, nil
		}
		dir, err := cacheDir()
		if err != nil {
			return "", fmt.Errorf("get cache dir: %w", err)
		}
		return filepath.Join(dir, "cache.db"), nil
	default:
		if cfg.Dir != "" {
			return cfg.Dir, nil
		}
		dir, err := cacheDir()
		if err != nil {
			return "", fmt.Errorf("get cache dir: %w", err)
		}
		return dir, nil
	}
}

func unwrapCache(c cache.Cache) cache.Cache {
	if capped, ok := c.(*cache.CappedCache); ok {
		return capped.Cache
	}
	return c
}
