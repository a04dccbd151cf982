package cli

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/Aryan-Seth/y0/internal/server"
	"github.com/Aryan-Seth/y0/pkg/observability"
)

func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the identification API over HTTP",
		Long: `Start an HTTP server exposing identification, district and apt-order
queries as JSON endpoints, with Prometheus metrics on /metrics.

The listen address defaults to [server] addr from the config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !cmd.Flags().Changed("addr") {
				cfg, err := c.loadConfig()
				if err != nil {
					return err
				}
				addr = cfg.Server.Addr
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			hooks := observability.NewPrometheusHooks(prometheus.DefaultRegisterer)
			observability.SetIdentifyHooks(hooks)
			observability.SetCacheHooks(hooks)
			observability.SetServerHooks(hooks)
			defer observability.Reset()

			srv := server.New(runner,
				server.WithLogger(c.Logger),
				server.WithGatherer(prometheus.DefaultGatherer))
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")

	return cmd
}
