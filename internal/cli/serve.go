package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/weavr/internal/server"
	"github.com/matzehuels/weavr/pkg/buildinfo"
	"github.com/matzehuels/weavr/pkg/cache"
	"github.com/matzehuels/weavr/pkg/observability"
	"github.com/matzehuels/weavr/pkg/pipeline"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		noMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the fix and audit pipelines over HTTP",
		Long: `Serve starts an HTTP API with POST /v1/fix, POST /v1/audit and
POST /v1/render, plus GET /healthz and GET /metrics.

Results are cached with the configured backend. Use a redis backend to share
results between replicas.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.config()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Server.Addr
			}

			store, err := c.newCache(ctx, cfg)
			if err != nil {
				return err
			}
			// Results are scoped by version so an upgrade never serves
			// entries computed by an older release.
			keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), buildinfo.Version+":")
			runner := pipeline.NewRunner(store, keyer, c.Logger)
			runner.TTL = cfg.Cache.TTL.Duration()
			defer runner.Close()

			srvCfg := server.Config{
				Runner:       runner,
				Layout:       cfg.LayoutOptions(),
				Logger:       c.Logger,
				MaxBodyBytes: cfg.Server.MaxBodyBytes,
			}
			if !noMetrics {
				m := observability.NewMetrics(appName)
				m.Register()
				srvCfg.Metrics = m.Handler()
			}

			c.Logger.Info("starting server",
				"version", buildinfo.Version,
				"cache", cfg.Cache.Backend,
				"metrics", !noMetrics)

			srv := server.New(srvCfg)
			if err := srv.ListenAndServe(ctx, addr, cfg.Server.ReadTimeout.Duration(), cfg.Server.WriteTimeout.Duration()); err != nil {
				return fmt.Errorf("serve: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config: :8080)")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "do not expose /metrics")

	return cmd
}
