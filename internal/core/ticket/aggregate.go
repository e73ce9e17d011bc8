package ticket

import (
	"sort"
	"strings"
)

// Count is the number of rows carrying one value of a facet.
type Count struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Report holds the three facet series shown on the dashboard.
type Report struct {
	Total    int     `json:"total"`
	ByStatus []Count `json:"by_status"`
	ByModule []Count `json:"by_module"`
	ByOrder  []Count `json:"by_order"`
}

// Aggregate counts rows per distinct value of column, most frequent first.
// Ties keep first-seen order.
func Aggregate(t *Table, column string) []Count {
	pos := make(map[string]int)
	counts := []Count{}
	for _, r := range t.Rows {
		v := r.Get(column)
		i, ok := pos[v]
		if !ok {
			i = len(counts)
			pos[v] = i
			counts = append(counts, Count{Value: v})
		}
		counts[i].Count++
	}
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	return counts
}

// Summarize builds the status, module and order series for t.
func Summarize(t *Table) Report {
	return Report{
		Total:    t.Len(),
		ByStatus: Aggregate(t, ColumnStatus),
		ByModule: Aggregate(t, ColumnModule),
		ByOrder:  Aggregate(t, ColumnOrder),
	}
}

// Series returns the report series for a facet column, or nil if column is not a facet.
func (r Report) Series(column string) []Count {
	switch column {
	case ColumnStatus:
		return r.ByStatus
	case ColumnModule:
		return r.ByModule
	case ColumnOrder:
		return r.ByOrder
	}
	return nil
}

// FacetColumn maps a user-supplied facet name (status, module, order, or a
// column name in any case) to its column.
func FacetColumn(name string) string {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "status":
		return ColumnStatus
	case "module", "modulo", "módulo":
		return ColumnModule
	case "order", "ordem", "priority":
		return ColumnOrder
	}
	return NormalizeValue(name)
}
