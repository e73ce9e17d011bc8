package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/sprintboard/internal/cli"
	"github.com/example/sprintboard/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "sprintboard",
		Short:   "sprintboard - filter, edit and chart the sprint ticket table",
		Version: version.String(),
		Long: `sprintboard manages the sprint ticket table kept in a CSV file.
Filter tickets by status, module and priority, edit their status and
assignee, and follow the counts per facet from the CLI or the dashboard.`,
		SilenceUsage: true,
	}

	cli.BindGlobalFlags(rootCmd)

	// Add subcommands
	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.DoctorCmd())
	rootCmd.AddCommand(cli.ListCmd())
	rootCmd.AddCommand(cli.EditCmd())
	rootCmd.AddCommand(cli.ApplyCmd())
	rootCmd.AddCommand(cli.ReportCmd())
	rootCmd.AddCommand(cli.ChartCmd())
	rootCmd.AddCommand(cli.LastUpdatedCmd())
	rootCmd.AddCommand(cli.ServeCmd())
	rootCmd.AddCommand(cli.VersionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
