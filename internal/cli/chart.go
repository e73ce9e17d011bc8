package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/sprintboard/internal/adapters/chart"
	"github.com/example/sprintboard/internal/core/ticket"
	"github.com/example/sprintboard/internal/ports/primary"
	"github.com/example/sprintboard/internal/wire"
)

// ChartCmd returns the chart command
func ChartCmd() *cobra.Command {
	var filters filterFlags
	var output, format string

	cmd := &cobra.Command{
		Use:   "chart FACET",
		Short: "Render a chart of ticket counts for status, module or order",
		Long: `Render the counts of the filtered tickets for one facet: a bar chart for
status and order, a pie chart for module.

Examples:
  sprintboard chart status -o status.png
  sprintboard chart module --format svg -o modules.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			column := ticket.FacetColumn(args[0])
			if guard := ticket.CanAggregate(ticket.FacetContext{Column: column}); !guard.Allowed {
				return guard.Error()
			}

			if format == "" {
				format = strings.TrimPrefix(strings.ToLower(filepath.Ext(output)), ".")
			}
			f, err := chart.ParseFormat(format)
			if err != nil {
				return err
			}

			report, err := wire.TicketService().Report(commandContext(cmd), primary.ListTicketsRequest{Filter: filters.spec(cmd)})
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			if err := wire.ChartRenderer().Render(&buf, column, report.Series(column), f); err != nil {
				return err
			}

			if output == "" {
				output = fmt.Sprintf("%s.%s", strings.ToLower(args[0]), f)
			}
			if err := os.WriteFile(output, buf.Bytes(), 0644); err != nil {
				return fmt.Errorf("failed to write chart: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Chart written to %s (%d tickets)\n", output, report.Total)
			return nil
		},
	}

	filters.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default <facet>.<format>)")
	cmd.Flags().StringVar(&format, "format", "", "png or svg (default from the output extension, else png)")
	return cmd
}
