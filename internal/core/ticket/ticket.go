// Package ticket contains the pure business logic for the sprint ticket table:
// normalization, filtering, reconciliation of edits, and per-facet counting.
// Nothing in this package performs I/O.
package ticket

import (
	"errors"
	"strings"
)

// Column names as they appear (after normalization) in the ticket file.
const (
	ColumnID       = "ID"
	ColumnStatus   = "STATUS"
	ColumnModule   = "MÓDULO"
	ColumnOrder    = "ORDEM"
	ColumnAssignee = "RESPONSÁVEL"
)

// NeverUpdated is returned by a modification log that has nothing recorded.
const NeverUpdated = "Nunca atualizado"

// TimestampLayout is the layout of the modification record (DD/MM/YYYY HH:MM:SS).
const TimestampLayout = "02/01/2006 15:04:05"

var (
	ErrSourceUnavailable = errors.New("ticket source unavailable")
	ErrSchemaMismatch    = errors.New("ticket schema mismatch")
	ErrPersistFailed     = errors.New("persist failed")
	ErrVersionConflict   = errors.New("tickets were saved by someone else")
	ErrLockTimeout       = errors.New("timed out waiting for save lock")
)

// RequiredColumns must be present in every ticket file.
var RequiredColumns = []string{ColumnID, ColumnStatus, ColumnModule, ColumnOrder, ColumnAssignee}

// normalizedColumns have their values trimmed and upper-cased on load.
var normalizedColumns = map[string]bool{
	ColumnStatus:   true,
	ColumnModule:   true,
	ColumnOrder:    true,
	ColumnAssignee: true,
}

// Ticket is a single row of the ticket table.
type Ticket struct {
	ID       string
	Status   string
	Module   string
	Order    string
	Assignee string
	// Fields holds every column without a dedicated field, keyed by normalized column name.
	Fields map[string]string
}

// Get returns the text of the named column.
func (t Ticket) Get(column string) string {
	switch column {
	case ColumnID:
		return t.ID
	case ColumnStatus:
		return t.Status
	case ColumnModule:
		return t.Module
	case ColumnOrder:
		return t.Order
	case ColumnAssignee:
		return t.Assignee
	}
	return t.Fields[column]
}

// Set assigns the named column. Facet and assignee values are normalized.
func (t *Ticket) Set(column, value string) {
	if normalizedColumns[column] {
		value = NormalizeValue(value)
	}
	switch column {
	case ColumnID:
		t.ID = value
	case ColumnStatus:
		t.Status = value
	case ColumnModule:
		t.Module = value
	case ColumnOrder:
		t.Order = value
	case ColumnAssignee:
		t.Assignee = value
	default:
		if t.Fields == nil {
			t.Fields = make(map[string]string)
		}
		t.Fields[column] = value
	}
}

// Clone returns a deep copy of the ticket.
func (t Ticket) Clone() Ticket {
	c := t
	if t.Fields != nil {
		c.Fields = make(map[string]string, len(t.Fields))
		for k, v := range t.Fields {
			c.Fields[k] = v
		}
	}
	return c
}

// Table is the authoritative ticket table or a view derived from it.
type Table struct {
	// Columns is the normalized header in file order.
	Columns []string
	Rows    []Ticket
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	c := &Table{
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([]Ticket, len(t.Rows)),
	}
	for i, r := range t.Rows {
		c.Rows[i] = r.Clone()
	}
	return c
}

// Header returns the header, falling back to the required columns for
// tables built in memory without one.
func (t *Table) Header() []string {
	if len(t.Columns) > 0 {
		return t.Columns
	}
	return RequiredColumns
}

// Record returns the row's values in column order.
func (t *Table) Record(i int) []string {
	cols := t.Header()
	out := make([]string, len(cols))
	for j, col := range cols {
		out[j] = t.Rows[i].Get(col)
	}
	return out
}

// DuplicateIDs returns IDs that appear on more than one row, in first-seen order.
func (t *Table) DuplicateIDs() []string {
	seen := make(map[string]int)
	var dups []string
	for _, r := range t.Rows {
		seen[r.ID]++
		if seen[r.ID] == 2 {
			dups = append(dups, r.ID)
		}
	}
	return dups
}

// NormalizeColumn trims a header cell and upper-cases it.
func NormalizeColumn(name string) string {
	return strings.ToUpper(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
}

// NormalizeValue trims a facet or assignee value and upper-cases it.
func NormalizeValue(v string) string {
	return strings.ToUpper(strings.TrimSpace(v))
}

// MissingColumns returns the required columns absent from header.
func MissingColumns(header []string) []string {
	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[h] = true
	}
	var missing []string
	for _, c := range RequiredColumns {
		if !present[c] {
			missing = append(missing, c)
		}
	}
	return missing
}

// FromRecord builds a ticket from a raw row, normalizing the facet columns.
// header must already be normalized and match record in length.
func FromRecord(header, record []string) Ticket {
	var t Ticket
	for i, col := range header {
		t.Set(col, record[i])
	}
	return t
}
