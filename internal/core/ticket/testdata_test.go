package ticket

var testColumns = []string{ColumnID, "TÍTULO", ColumnStatus, ColumnModule, ColumnOrder, ColumnAssignee}

// scenarioTable is the two-row table used across the pipeline tests.
func scenarioTable() *Table {
	return &Table{
		Columns: testColumns,
		Rows: []Ticket{
			{ID: "1", Status: "OPEN", Module: "A", Order: "1", Assignee: "", Fields: map[string]string{"TÍTULO": "Login falha"}},
			{ID: "2", Status: "CLOSED", Module: "B", Order: "2", Assignee: "X", Fields: map[string]string{"TÍTULO": "Relatório ABC123"}},
		},
	}
}

// sprintTable is a larger table with repeated facet values.
func sprintTable() *Table {
	rows := []Ticket{
		{ID: "10", Status: "OPEN", Module: "FINANCEIRO", Order: "1", Assignee: "ANA", Fields: map[string]string{"TÍTULO": "Boleto duplicado"}},
		{ID: "11", Status: "EM ANDAMENTO", Module: "FINANCEIRO", Order: "2", Assignee: "BRUNO", Fields: map[string]string{"TÍTULO": "Conciliação"}},
		{ID: "12", Status: "OPEN", Module: "ESTOQUE", Order: "1", Assignee: "", Fields: map[string]string{"TÍTULO": "Saldo negativo"}},
		{ID: "13", Status: "CLOSED", Module: "ESTOQUE", Order: "3", Assignee: "ANA", Fields: map[string]string{"TÍTULO": "Inventário"}},
		{ID: "14", Status: "OPEN", Module: "FISCAL", Order: "2", Assignee: "CARLA", Fields: map[string]string{"TÍTULO": "NF-e rejeitada"}},
	}
	return &Table{Columns: testColumns, Rows: rows}
}

func ids(t *Table) []string {
	out := make([]string, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r.ID
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
