package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/sprintboard/internal/core/ticket"
)

// filterFlags holds the facet and search flags shared by list, report and chart.
type filterFlags struct {
	statuses []string
	modules  []string
	orders   []string
	query    string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&f.statuses, "status", nil, "Only show these statuses (repeatable or comma-separated)")
	cmd.Flags().StringSliceVar(&f.modules, "module", nil, "Only show these modules")
	cmd.Flags().StringSliceVar(&f.orders, "order", nil, "Only show these priority orders")
	cmd.Flags().StringVarP(&f.query, "search", "q", "", "Case-insensitive text search across all columns")
}

// spec builds the filter. A facet flag that was not given leaves the facet
// unrestricted; --status "" selects nothing.
func (f *filterFlags) spec(cmd *cobra.Command) ticket.FilterSpec {
	return ticket.FilterSpec{
		Statuses: selected(cmd, "status", f.statuses),
		Modules:  selected(cmd, "module", f.modules),
		Orders:   selected(cmd, "order", f.orders),
		Query:    f.query,
	}
}

func selected(cmd *cobra.Command, name string, values []string) []string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
