package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/sprintboard/internal/wire"
)

// LastUpdatedCmd returns the last-updated command
func LastUpdatedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "last-updated",
		Short: "Show when the ticket table was last saved",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.TicketAdapterWithOutput(cmd.OutOrStdout()).LastUpdated(commandContext(cmd))
		},
	}
}
