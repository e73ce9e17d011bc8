package ticket

// ReconcileResult reports what a reconcile pass did with the edited rows.
type ReconcileResult struct {
	// Updated lists edited IDs that matched at least one authoritative row, in edit order.
	Updated []string
	// Unmatched lists edited rows whose ID is empty or absent from the table.
	// They are dropped, never appended.
	Unmatched []Ticket
	// Changed counts authoritative rows whose STATUS or RESPONSÁVEL actually changed.
	Changed int
}

// Reconcile merges the mutable fields of edited rows into a copy of the
// authoritative table, keyed by ID. Only STATUS and RESPONSÁVEL are written;
// every row matching an edited ID is updated. t is left untouched.
func Reconcile(t *Table, edited []Ticket) (*Table, ReconcileResult) {
	out := t.Clone()

	index := make(map[string][]int, len(out.Rows))
	for i, r := range out.Rows {
		index[r.ID] = append(index[r.ID], i)
	}

	var result ReconcileResult
	for _, e := range edited {
		rows, ok := index[e.ID]
		if e.ID == "" || !ok {
			result.Unmatched = append(result.Unmatched, e.Clone())
			continue
		}
		status := NormalizeValue(e.Status)
		assignee := NormalizeValue(e.Assignee)
		for _, i := range rows {
			row := &out.Rows[i]
			if row.Status != status || row.Assignee != assignee {
				result.Changed++
			}
			row.Status = status
			row.Assignee = assignee
		}
		result.Updated = append(result.Updated, e.ID)
	}

	return out, result
}
