package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spdash/spdash/internal/server"
	"github.com/spf13/cobra"
)

type serveOptions struct {
	addr string
	warm bool
}

func newServeCmd(global *globalOptions) *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dataset and reports over a JSON API",
		Long: `Start the JSON API. The dataset is loaded on first request and cached
until POST /api/cache/invalidate.

Routes:
  GET  /healthz
  GET  /api/dataset
  GET  /api/objectives/{id}
  GET  /api/aggregate?by=Department&value=Overall&reducer=mean&sort=canonical
  POST /api/cache/invalidate`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnvironment(cmd, global)
			if err != nil {
				return err
			}
			if opts.addr != "" {
				env.cfg.Dashboard.Server.Addr = opts.addr
			}
			if err := env.cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			c := env.newCache()
			if opts.warm {
				if _, status := c.Get(ctx, env.location()); !status.OK {
					env.log.Warn("warm load failed", "reason", status.Reason.String())
				}
			}

			return server.New(c, env.cfg, env.log).ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address, overrides server.addr")
	cmd.Flags().BoolVar(&opts.warm, "warm", false, "load the dataset before accepting requests")

	return cmd
}
