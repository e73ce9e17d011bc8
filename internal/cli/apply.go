package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/sprintboard/internal/adapters/filesystem"
	"github.com/example/sprintboard/internal/wire"
)

// ApplyCmd returns the apply command
func ApplyCmd() *cobra.Command {
	var expect string

	cmd := &cobra.Command{
		Use:   "apply FILE",
		Short: "Save an edited view back into the ticket table",
		Long: `Read an edited view (as written by 'list --csv') and merge its STATUS and
RESPONSÁVEL values into the ticket table by ID. Rows whose ID is empty or
not in the table are reported and dropped. Use - to read stdin.

Examples:
  sprintboard list --module fiscal --csv > fiscal.csv
  $EDITOR fiscal.csv
  sprintboard apply fiscal.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("failed to open %s: %w", args[0], err)
				}
				defer f.Close()
				r = f
			}

			edited, stats, err := filesystem.ReadTable(r)
			if err != nil {
				return fmt.Errorf("failed to read edits: %w", err)
			}
			if stats.Skipped > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %d malformed rows in %s ignored\n",
					color.New(color.FgYellow).Sprint("⚠"), stats.Skipped, args[0])
			}

			return wire.TicketAdapterWithOutput(cmd.OutOrStdout()).Apply(commandContext(cmd), edited.Rows, expect)
		},
	}

	cmd.Flags().StringVar(&expect, "expect", "", "Refuse to save unless the table version (shown by list) equals this value")
	return cmd
}
