// Package cli provides thin CLI adapters that translate between CLI concerns
// and application services. Adapters handle argument parsing and output
// formatting, but delegate business logic to services.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/example/sprintboard/internal/adapters/filesystem"
	"github.com/example/sprintboard/internal/core/ticket"
	"github.com/example/sprintboard/internal/ports/primary"
)

// TicketAdapter is a thin adapter that translates CLI operations to TicketService calls.
type TicketAdapter struct {
	service primary.TicketService
	out     io.Writer
}

// NewTicketAdapter creates a new TicketAdapter with the given service.
func NewTicketAdapter(service primary.TicketService, out io.Writer) *TicketAdapter {
	return &TicketAdapter{
		service: service,
		out:     out,
	}
}

// EditFields holds the field changes requested on the command line.
// Empty fields keep the ticket's current value.
type EditFields struct {
	Status   string
	Assignee string
	// ClearAssignee sets RESPONSÁVEL to empty.
	ClearAssignee bool
}

// List prints the filtered view as a table.
func (a *TicketAdapter) List(ctx context.Context, spec ticket.FilterSpec) error {
	resp, err := a.service.ListTickets(ctx, primary.ListTicketsRequest{Filter: spec})
	if err != nil {
		return err
	}

	if resp.View.Len() == 0 {
		fmt.Fprintln(a.out, "No tickets found")
	} else {
		a.printTable(resp.View)
	}

	fmt.Fprintf(a.out, "%d of %d tickets shown\n", resp.View.Len(), resp.Total)
	if resp.Skipped > 0 {
		fmt.Fprintf(a.out, "%s %d malformed rows skipped\n", color.New(color.FgYellow).Sprint("⚠"), resp.Skipped)
	}
	fmt.Fprintf(a.out, "Last updated: %s\n", resp.LastUpdated)
	fmt.Fprintf(a.out, "Version: %s\n", resp.Version)
	return nil
}

// Export writes the filtered view as CSV, suitable for editing and `apply`.
func (a *TicketAdapter) Export(ctx context.Context, spec ticket.FilterSpec) error {
	resp, err := a.service.ListTickets(ctx, primary.ListTicketsRequest{Filter: spec})
	if err != nil {
		return err
	}
	return filesystem.WriteTable(a.out, resp.View)
}

// Edit changes STATUS and/or RESPONSÁVEL of the tickets with the given IDs.
// When expected is empty, the version read alongside the rows is used so a
// save made in between is rejected rather than overwritten.
func (a *TicketAdapter) Edit(ctx context.Context, ids []string, fields EditFields, expected string) error {
	if fields.Status == "" && fields.Assignee == "" && !fields.ClearAssignee {
		return fmt.Errorf("nothing to change: pass --status or --assignee")
	}

	resp, err := a.service.ListTickets(ctx, primary.ListTicketsRequest{})
	if err != nil {
		return err
	}
	if expected == "" {
		expected = resp.Version
	}

	byID := make(map[string]ticket.Ticket, resp.View.Len())
	for _, r := range resp.View.Rows {
		if _, seen := byID[r.ID]; !seen {
			byID[r.ID] = r
		}
	}

	edits := make([]ticket.Ticket, 0, len(ids))
	for _, id := range ids {
		edit, ok := byID[id]
		if !ok {
			edit = ticket.Ticket{ID: id}
		}
		edit = edit.Clone()
		if fields.Status != "" {
			edit.Set(ticket.ColumnStatus, fields.Status)
		}
		if fields.Assignee != "" || fields.ClearAssignee {
			edit.Set(ticket.ColumnAssignee, fields.Assignee)
		}
		edits = append(edits, edit)
	}

	return a.Apply(ctx, edits, expected)
}

// Apply saves edited rows and prints what happened.
func (a *TicketAdapter) Apply(ctx context.Context, edits []ticket.Ticket, expected string) error {
	resp, err := a.service.SaveEdits(ctx, primary.SaveEditsRequest{
		Edits:           edits,
		ExpectedVersion: expected,
	})
	if err != nil {
		return fmt.Errorf("changes were not saved: %w", err)
	}

	fmt.Fprintf(a.out, "✓ Saved %d ticket(s) at %s\n", len(resp.Updated), resp.SavedAt)
	if len(resp.Updated) > 0 {
		fmt.Fprintf(a.out, "  Updated: %s (%d row(s) changed)\n", strings.Join(resp.Updated, ", "), resp.Changed)
	}
	for _, u := range resp.Unmatched {
		id := u.ID
		if id == "" {
			id = "(empty ID)"
		}
		fmt.Fprintf(a.out, "  %s Dropped %s: no ticket with that ID\n", color.New(color.FgYellow).Sprint("⚠"), id)
	}
	return nil
}

// Report prints per-facet counts of the filtered view.
func (a *TicketAdapter) Report(ctx context.Context, spec ticket.FilterSpec) error {
	report, err := a.service.Report(ctx, primary.ListTicketsRequest{Filter: spec})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "\nTickets: %d\n", report.Total)
	a.printSeries("Chamados por Status", report.ByStatus)
	a.printSeries("Chamados por Módulo", report.ByModule)
	a.printSeries("Chamados por Ordem", report.ByOrder)
	fmt.Fprintln(a.out)
	return nil
}

// LastUpdated prints the stamp of the last successful save.
func (a *TicketAdapter) LastUpdated(ctx context.Context) error {
	stamp, err := a.service.LastUpdated(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Última atualização: %s\n", stamp)
	return nil
}

func (a *TicketAdapter) printTable(t *ticket.Table) {
	header := t.Header()
	widths := make([]int, len(header))
	for j, h := range header {
		widths[j] = len([]rune(h))
	}
	for i := range t.Rows {
		for j, v := range t.Record(i) {
			if n := len([]rune(v)); n > widths[j] {
				widths[j] = n
			}
		}
	}

	fmt.Fprintln(a.out)
	a.printRow(header, widths)
	total := 0
	for _, w := range widths {
		total += w + 2
	}
	fmt.Fprintln(a.out, strings.Repeat("─", total))
	for i := range t.Rows {
		a.printRow(t.Record(i), widths)
	}
	fmt.Fprintln(a.out)
}

func (a *TicketAdapter) printRow(values []string, widths []int) {
	var b strings.Builder
	for j, v := range values {
		b.WriteString(v)
		if j < len(values)-1 {
			b.WriteString(strings.Repeat(" ", widths[j]-len([]rune(v))+2))
		}
	}
	fmt.Fprintln(a.out, b.String())
}

func (a *TicketAdapter) printSeries(title string, counts []ticket.Count) {
	fmt.Fprintf(a.out, "\n%s\n", title)
	if len(counts) == 0 {
		fmt.Fprintln(a.out, "  (no tickets)")
		return
	}

	width := 0
	for _, c := range counts {
		if n := len([]rune(displayValue(c.Value))); n > width {
			width = n
		}
	}
	bar := color.New(color.FgCyan)
	for _, c := range counts {
		v := displayValue(c.Value)
		fmt.Fprintf(a.out, "  %s%s %4d %s\n", v, strings.Repeat(" ", width-len([]rune(v))), c.Count, bar.Sprint(strings.Repeat("█", c.Count)))
	}
}

func displayValue(v string) string {
	if v == "" {
		return "(vazio)"
	}
	return v
}
