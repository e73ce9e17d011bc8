package cli

import (
	"testing"

	"github.com/spf13/cobra"
)

func TestFilterFlags_Spec(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		wantStatuses []string
		wantModules  []string
		wantQuery    string
	}{
		{
			name: "no flags leaves facets unrestricted",
			args: []string{},
		},
		{
			name:         "repeatable and comma-separated",
			args:         []string{"--status", "open,done", "--status", "blocked"},
			wantStatuses: []string{"open", "done", "blocked"},
		},
		{
			name:         "empty value selects nothing",
			args:         []string{"--status", ""},
			wantStatuses: []string{},
		},
		{
			name:        "module and search",
			args:        []string{"--module", "fiscal", "-q", "bruno"},
			wantModules: []string{"fiscal"},
			wantQuery:   "bruno",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var filters filterFlags
			cmd := &cobra.Command{Use: "test", RunE: func(*cobra.Command, []string) error { return nil }}
			filters.register(cmd)
			if err := cmd.ParseFlags(tt.args); err != nil {
				t.Fatalf("ParseFlags failed: %v", err)
			}

			spec := filters.spec(cmd)
			if !sameFacet(spec.Statuses, tt.wantStatuses) {
				t.Errorf("expected statuses %#v, got %#v", tt.wantStatuses, spec.Statuses)
			}
			if !sameFacet(spec.Modules, tt.wantModules) {
				t.Errorf("expected modules %#v, got %#v", tt.wantModules, spec.Modules)
			}
			if spec.Orders != nil {
				t.Errorf("expected unrestricted orders, got %#v", spec.Orders)
			}
			if spec.Query != tt.wantQuery {
				t.Errorf("expected query %q, got %q", tt.wantQuery, spec.Query)
			}
		})
	}
}

// sameFacet compares facet selections, distinguishing nil (unrestricted) from empty.
func sameFacet(got, want []string) bool {
	if (got == nil) != (want == nil) || len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}
