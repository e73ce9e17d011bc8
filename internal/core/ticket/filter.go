package ticket

import (
	"sort"
	"strings"
)

// FilterSpec selects a view of the table.
//
// A nil facet slice leaves that facet unrestricted, which is the same as
// allowing every distinct value present. A non-nil empty slice allows nothing.
type FilterSpec struct {
	Orders   []string
	Modules  []string
	Statuses []string
	// Query is matched case-insensitively as a substring of any column.
	Query string
}

// Distinct returns the sorted distinct values of a column.
func Distinct(t *Table, column string) []string {
	seen := make(map[string]bool)
	values := []string{}
	for _, r := range t.Rows {
		v := r.Get(column)
		if !seen[v] {
			seen[v] = true
			values = append(values, v)
		}
	}
	sort.Strings(values)
	return values
}

// DefaultSpec returns the spec that selects every row: all distinct facet
// values currently present, and no query.
func DefaultSpec(t *Table) FilterSpec {
	return FilterSpec{
		Orders:   Distinct(t, ColumnOrder),
		Modules:  Distinct(t, ColumnModule),
		Statuses: Distinct(t, ColumnStatus),
	}
}

// Resolve fills unrestricted facets with the distinct values of t.
func (s FilterSpec) Resolve(t *Table) FilterSpec {
	if s.Orders == nil {
		s.Orders = Distinct(t, ColumnOrder)
	}
	if s.Modules == nil {
		s.Modules = Distinct(t, ColumnModule)
	}
	if s.Statuses == nil {
		s.Statuses = Distinct(t, ColumnStatus)
	}
	return s
}

// Filter returns the rows of t matching every facet of spec, then the query.
// The result shares no row storage with t.
func Filter(t *Table, spec FilterSpec) *Table {
	orders := allowSet(spec.Orders)
	modules := allowSet(spec.Modules)
	statuses := allowSet(spec.Statuses)
	query := strings.ToLower(spec.Query)

	out := &Table{Columns: append([]string(nil), t.Columns...), Rows: []Ticket{}}
	for i, r := range t.Rows {
		if !orders.allows(r.Order) || !modules.allows(r.Module) || !statuses.allows(r.Status) {
			continue
		}
		if query != "" && !rowContains(t, i, query) {
			continue
		}
		out.Rows = append(out.Rows, r.Clone())
	}
	return out
}

// rowContains reports whether any column of row i contains the lower-cased query.
func rowContains(t *Table, i int, query string) bool {
	r := t.Rows[i]
	for _, col := range t.Header() {
		if strings.Contains(strings.ToLower(r.Get(col)), query) {
			return true
		}
	}
	// Without a header, extra columns are only reachable through Fields.
	if len(t.Columns) == 0 {
		for _, v := range r.Fields {
			if strings.Contains(strings.ToLower(v), query) {
				return true
			}
		}
	}
	return false
}

type facetSet map[string]bool

// allowSet returns nil for an unrestricted facet.
func allowSet(values []string) facetSet {
	if values == nil {
		return nil
	}
	s := make(facetSet, len(values))
	for _, v := range values {
		s[NormalizeValue(v)] = true
	}
	return s
}

func (s facetSet) allows(v string) bool {
	if s == nil {
		return true
	}
	return s[v]
}
