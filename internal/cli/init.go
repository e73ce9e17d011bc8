package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/example/sprintboard/internal/config"
	"github.com/example/sprintboard/internal/core/ticket"
	"github.com/example/sprintboard/internal/wire"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create .sprintboard/config.yaml in the current directory",
		Long: `Write the resolved configuration to .sprintboard/config.yaml and create an
empty ticket file (header only) if none exists yet.

Examples:
  sprintboard init
  sprintboard init --tickets sprint42.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			wd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}

			target := filepath.Join(wd, config.DirName, "config.yaml")
			if _, err := os.Stat(target); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", target)
			}

			cfg := wire.Config()
			path, err := config.Save(wd, cfg)
			if err != nil {
				return err
			}
			fmt.Printf("✓ Config written to %s\n", path)

			if _, err := os.Stat(cfg.Tickets.Path); errors.Is(err, os.ErrNotExist) {
				empty := &ticket.Table{Columns: ticket.RequiredColumns}
				if _, err := wire.TicketStore().Save(commandContext(cmd), empty); err != nil {
					return fmt.Errorf("failed to create ticket file: %w", err)
				}
				fmt.Printf("✓ Created empty ticket file %s\n", cfg.Tickets.Path)
			}

			fmt.Println()
			fmt.Println("Next steps:")
			fmt.Println("  sprintboard list")
			fmt.Println("  sprintboard serve")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing config file")
	return cmd
}
