package cli

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/statewalk/pkg/observability/prom"
	"github.com/matzehuels/statewalk/pkg/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr       string
		maxTimeout time.Duration
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve exposes orderings and enumerations over HTTP with Prometheus metrics
on /metrics. Results are cached in Redis when [cache] redis_addr is set in the
config file, otherwise on disk.`,
		Example: `  statewalk serve --addr :9090
  STATEWALK_CONFIG=/etc/statewalk.toml statewalk serve`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				addr = c.cfg.Server.Addr
			}
			if !cmd.Flags().Changed("max-timeout") {
				maxTimeout = time.Duration(c.cfg.Server.MaxTimeout)
			}

			runner, err := c.newRunner(noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
			prom.Register(reg)

			srv := server.New(server.Config{
				Addr:         addr,
				MaxBodyBytes: c.cfg.Server.MaxBodyBytes,
				MaxTimeout:   maxTimeout,
				Runner:       runner,
				Logger:       c.Logger,
				Gatherer:     reg,
			})
			return srv.ListenAndServe(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().DurationVar(&maxTimeout, "max-timeout", server.DefaultMaxTimeout, "largest search budget a request may ask for")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")
	return cmd
}
