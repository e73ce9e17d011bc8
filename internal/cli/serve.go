package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/example/sprintboard/internal/wire"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the ticket dashboard over HTTP",
		Long: `Serve the dashboard page, the JSON API, charts and Prometheus metrics.

Routes:
  GET  /                       filter form, editable table, charts
  GET  /api/tickets            filtered view (status, module, order, q)
  POST /api/tickets/edits      save edited rows
  GET  /api/report             counts per facet
  GET  /api/last-updated       stamp of the last save
  GET  /charts/{facet}         chart image (format=png|svg)
  GET  /metrics                Prometheus metrics

Examples:
  sprintboard serve
  sprintboard serve --addr 127.0.0.1:9000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = wire.Config().Serve.Addr
			}

			server, err := wire.WebServer()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return server.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config, :8501)")
	return cmd
}
