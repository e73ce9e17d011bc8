package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/sprintboard/internal/adapters/filesystem"
	"github.com/example/sprintboard/internal/config"
	"github.com/example/sprintboard/internal/core/ticket"
	"github.com/example/sprintboard/internal/ports/primary"
	"github.com/example/sprintboard/internal/wire"
)

// CheckResult represents the outcome of a single check
type CheckResult struct {
	Name    string
	Status  string // "✓", "⚠", "✗"
	Details string // Only shown if Status != "✓"
	Note    string // Shown next to the status
}

// DoctorCmd returns the doctor command for environment validation
func DoctorCmd() *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the ticket file, modification log and save lock",
		Long: `Health check for a sprintboard project.

Validates:
- Configuration (file found, timezone, log backend)
- Ticket file (readable, required columns present)
- Rows (malformed rows, duplicate IDs)
- Modification log (last save, and who made it on the sqlite backend)
- Save lock (can be acquired)

Examples:
  sprintboard doctor              # Run full health check
  sprintboard doctor --quiet      # Exit code only (0=healthy, 1=issues)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			cfg := wire.Config()

			results := []CheckResult{checkConfig(cfg)}
			check, err := wire.TicketService().Check(ctx)
			results = append(results, checkTicketFile(cfg, err))
			if err == nil {
				results = append(results, checkRows(check))
				results = append(results, checkModificationLog(check))
			}
			results = append(results, checkSaveLock(ctx, cfg))

			hasErrors := false
			for _, r := range results {
				if r.Status == "✗" {
					hasErrors = true
					break
				}
			}

			if !quiet {
				out := cmd.OutOrStdout()
				fmt.Fprintln(out)
				fmt.Fprintln(out, "Check              Status")
				fmt.Fprintln(out, "─────────────────────────")
				for _, r := range results {
					fmt.Fprintln(out, strings.TrimRight(fmt.Sprintf("%-18s %s  %s", r.Name, r.Status, r.Note), " "))
				}
				fmt.Fprintln(out)

				hasDetails := false
				for _, r := range results {
					if r.Status != "✓" && r.Details != "" {
						if !hasDetails {
							fmt.Fprintln(out, "Details:")
							hasDetails = true
						}
						fmt.Fprintf(out, "\n%s:\n%s\n", r.Name, r.Details)
					}
				}

				if hasErrors {
					fmt.Fprintln(out, "\n⚠ Issues found.")
				} else {
					fmt.Fprintln(out, "All checks passed.")
				}
			}

			if hasErrors {
				return fmt.Errorf("environment validation failed")
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Quiet mode - exit code only")

	return cmd
}

// checkConfig reports where configuration came from
func checkConfig(cfg *config.Config) CheckResult {
	if cfg.File == "" {
		return CheckResult{Name: "Config", Status: "⚠", Details: "  No .sprintboard/config.yaml found; using defaults and environment.\n  Run 'sprintboard init' to create one."}
	}
	return CheckResult{Name: "Config", Status: "✓"}
}

// checkTicketFile validates that the ticket file loads
func checkTicketFile(cfg *config.Config, err error) CheckResult {
	if err != nil {
		return CheckResult{Name: "Ticket file", Status: "✗", Details: fmt.Sprintf("  %s: %v", cfg.Tickets.Path, err)}
	}
	return CheckResult{Name: "Ticket file", Status: "✓"}
}

// checkRows reports malformed rows and duplicate IDs
func checkRows(check *primary.CheckResponse) CheckResult {
	var details []string
	if check.Skipped > 0 {
		details = append(details, fmt.Sprintf("  %d malformed rows are skipped on every load and dropped on save", check.Skipped))
	}
	if len(check.DuplicateIDs) > 0 {
		details = append(details, fmt.Sprintf("  Duplicate IDs (edits update every copy): %s", strings.Join(check.DuplicateIDs, ", ")))
	}
	if len(details) > 0 {
		return CheckResult{Name: "Rows", Status: "⚠", Details: strings.Join(details, "\n")}
	}
	return CheckResult{Name: "Rows", Status: "✓"}
}

// checkModificationLog reports the last save stamp and, when known, who saved
func checkModificationLog(check *primary.CheckResponse) CheckResult {
	note := "last saved " + check.LastUpdated
	if check.LastUpdated == ticket.NeverUpdated {
		note = check.LastUpdated
	}
	if check.LastActor != "" {
		note += " by " + check.LastActor
	}
	return CheckResult{Name: "Modification log", Status: "✓", Note: note}
}

// checkSaveLock verifies the save lock can be taken and released
func checkSaveLock(ctx context.Context, cfg *config.Config) CheckResult {
	lock := filesystem.NewFileLock(cfg.LockPath(), 2*time.Second)
	unlock, err := lock.Lock(ctx)
	if err != nil {
		return CheckResult{Name: "Save lock", Status: "✗", Details: fmt.Sprintf("  %v\n  Another save may be stuck; check for a running sprintboard process.", err)}
	}
	if err := unlock(); err != nil {
		return CheckResult{Name: "Save lock", Status: "⚠", Details: fmt.Sprintf("  failed to release lock: %v", err)}
	}
	if _, err := os.Stat(cfg.LockPath()); err != nil {
		return CheckResult{Name: "Save lock", Status: "⚠", Details: fmt.Sprintf("  lock file not created: %v", err)}
	}
	return CheckResult{Name: "Save lock", Status: "✓"}
}
