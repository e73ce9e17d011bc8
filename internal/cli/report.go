package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/sprintboard/internal/adapters/filesystem"
	"github.com/example/sprintboard/internal/wire"
)

// ReportCmd returns the report command
func ReportCmd() *cobra.Command {
	var filters filterFlags
	var watch bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Count tickets per status, module and priority",
		Long: `Count the filtered tickets per STATUS, MÓDULO and ORDEM.
With --watch the report is printed again whenever the ticket file changes.

Examples:
  sprintboard report
  sprintboard report --module fiscal --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter := wire.TicketAdapterWithOutput(cmd.OutOrStdout())
			spec := filters.spec(cmd)

			if err := adapter.Report(commandContext(cmd), spec); err != nil {
				return err
			}
			if !watch {
				return nil
			}

			ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()

			path := wire.Config().Tickets.Path
			fmt.Fprintf(cmd.OutOrStdout(), "Watching %s (Ctrl-C to stop)\n", path)
			return filesystem.Watch(ctx, path, 200*time.Millisecond, func() {
				fmt.Fprintf(cmd.OutOrStdout(), "\n── %s ──\n", time.Now().Format("15:04:05"))
				if err := adapter.Report(ctx, spec); err != nil {
					wire.Logger().Warn("failed to refresh report", "error", err)
				}
			})
		},
	}

	filters.register(cmd)
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Reprint when the ticket file changes")
	return cmd
}
