package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/sprintboard/internal/wire"
)

// ListCmd returns the list command
func ListCmd() *cobra.Command {
	var filters filterFlags
	var asCSV bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show tickets matching the filters",
		Long: `Show the tickets whose STATUS, MÓDULO and ORDEM are all selected and that
contain the search text in any column. Facets not given are unrestricted.

Examples:
  sprintboard list
  sprintboard list --status open,"in progress" --module fiscal
  sprintboard list -q bruno
  sprintboard list --module fiscal --csv > fiscal.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter := wire.TicketAdapterWithOutput(cmd.OutOrStdout())
			if asCSV {
				return adapter.Export(commandContext(cmd), filters.spec(cmd))
			}
			return adapter.List(commandContext(cmd), filters.spec(cmd))
		},
	}

	filters.register(cmd)
	cmd.Flags().BoolVar(&asCSV, "csv", false, "Write the view as CSV (editable, then saved with apply)")
	return cmd
}
