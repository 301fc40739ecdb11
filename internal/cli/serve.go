package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/harmonic/internal/server"
	"github.com/matzehuels/harmonic/pkg/observability"
)

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		rps     float64
		burst   int
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout API over HTTP",
		Long: `Serve the layout API over HTTP.

  GET  /healthz    liveness probe
  POST /v1/layout  graph document -> layout JSON (?pin=i:x,y, ?tolerance=)
  POST /v1/render  graph document -> artifact (?format=svg|png|pdf|dot|json, ?style=)
  GET  /v1/stats   request, pipeline and cache counters

The address defaults to the [server] section of the config file or
HARMONIC_SERVER_ADDR.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.Config.Server
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}
			if cmd.Flags().Changed("rate") {
				cfg.RateLimit = rps
			}
			if cmd.Flags().Changed("burst") {
				cfg.Burst = burst
			}

			runner, err := c.newRunner(cmd.Context(), noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			counters := observability.NewCounters()
			observability.SetPipelineHooks(counters)
			observability.SetCacheHooks(counters)
			observability.SetHTTPHooks(counters)

			if cfg.RateLimit <= 0 {
				printWarning("rate limiting disabled")
			}
			c.Logger.Info("starting server",
				"addr", cfg.Addr,
				"cache", c.Config.Cache.Backend,
				"rate_limit", cfg.RateLimit,
				"burst", cfg.Burst)

			srv := server.New(server.Config{
				Addr:      cfg.Addr,
				RateLimit: cfg.RateLimit,
				Burst:     cfg.Burst,
				MaxNodes:  cfg.MaxNodes,
				Runner:    runner,
				Counters:  counters,
				Logger:    c.Logger,
			})
			return srv.ListenAndServe(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().Float64Var(&rps, "rate", 0, "requests per second across all clients (0 disables limiting)")
	cmd.Flags().IntVar(&burst, "burst", 0, "rate limiter burst size")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
