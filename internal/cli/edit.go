package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	cliadapter "github.com/example/sprintboard/internal/adapters/cli"
	"github.com/example/sprintboard/internal/wire"
)

// EditCmd returns the edit command
func EditCmd() *cobra.Command {
	var fields cliadapter.EditFields
	var expect string

	cmd := &cobra.Command{
		Use:   "edit ID [ID...]",
		Short: "Change the status or assignee of tickets",
		Long: `Change STATUS and/or RESPONSÁVEL of the given tickets and save the table.
Every row carrying a given ID is updated. IDs not in the table are reported
and ignored.

Examples:
  sprintboard edit 101 --status done
  sprintboard edit 101 102 --assignee ana
  sprintboard edit 101 --clear-assignee`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if fields.Assignee != "" && fields.ClearAssignee {
				return fmt.Errorf("--assignee and --clear-assignee are mutually exclusive")
			}
			return wire.TicketAdapterWithOutput(cmd.OutOrStdout()).Edit(commandContext(cmd), args, fields, expect)
		},
	}

	cmd.Flags().StringVarP(&fields.Status, "status", "s", "", "New status")
	cmd.Flags().StringVarP(&fields.Assignee, "assignee", "a", "", "New assignee")
	cmd.Flags().BoolVar(&fields.ClearAssignee, "clear-assignee", false, "Remove the assignee")
	cmd.Flags().StringVar(&expect, "expect", "", "Refuse to save unless the table version (shown by list) equals this value")
	return cmd
}
