package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/justgrid/internal/metrics"
	"github.com/matzehuels/justgrid/pkg/server"
)

// serveCommand starts the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr        string
		withMetrics bool
		noCache     bool
		maxBody     int64
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout API over HTTP",
		Long: `Serve the layout API over HTTP.

POST /v1/layout computes a layout from a JSON frame list and
POST /v1/render/{format} renders one. Layout and render defaults come from
the config file. The server stops gracefully on interrupt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !cmd.Flags().Changed("addr") {
				addr = c.Config.Server.Addr
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			opts := []server.Option{
				server.WithLogger(c.Logger),
				server.WithDefaults(c.Config.Options()),
			}
			if maxBody > 0 {
				opts = append(opts, server.WithMaxBodyBytes(maxBody))
			}
			if withMetrics {
				m := metrics.New(nil)
				m.Register()
				opts = append(opts, server.WithMetrics(m.Handler()))
			}

			c.ui().info("Listening on %s", StyleLink.Render(addr))
			return server.New(runner, opts...).ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, else :8080)")
	cmd.Flags().BoolVar(&withMetrics, "metrics", false, "expose Prometheus metrics at /metrics")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().Int64Var(&maxBody, "max-body", 0, "maximum request body in bytes (default 8MiB)")

	return cmd
}
