package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/example/sprintboard/internal/core/ticket"
	"github.com/example/sprintboard/internal/ports/primary"
)

func init() {
	color.NoColor = true
}

// mockTicketService implements primary.TicketService for testing
type mockTicketService struct {
	listTicketsFn func(ctx context.Context, req primary.ListTicketsRequest) (*primary.ListTicketsResponse, error)
	saveEditsFn   func(ctx context.Context, req primary.SaveEditsRequest) (*primary.SaveEditsResponse, error)
	reportFn      func(ctx context.Context, req primary.ListTicketsRequest) (*ticket.Report, error)

	// Track calls for verification
	lastListReq primary.ListTicketsRequest
	lastSaveReq primary.SaveEditsRequest
	saveCalls   int
}

func (m *mockTicketService) ListTickets(ctx context.Context, req primary.ListTicketsRequest) (*primary.ListTicketsResponse, error) {
	m.lastListReq = req
	if m.listTicketsFn != nil {
		return m.listTicketsFn(ctx, req)
	}
	table := sampleTable()
	return &primary.ListTicketsResponse{
		View:        ticket.Filter(table, req.Filter),
		Filter:      req.Filter.Resolve(table),
		Options:     ticket.DefaultSpec(table),
		Total:       table.Len(),
		LastUpdated: "01/03/2025 10:00:00",
		Version:     "5d1f7c2a9e04b3c8",
	}, nil
}

func (m *mockTicketService) SaveEdits(ctx context.Context, req primary.SaveEditsRequest) (*primary.SaveEditsResponse, error) {
	m.lastSaveReq = req
	m.saveCalls++
	if m.saveEditsFn != nil {
		return m.saveEditsFn(ctx, req)
	}
	return &primary.SaveEditsResponse{SavedAt: "02/03/2025 11:00:00"}, nil
}

func (m *mockTicketService) Report(ctx context.Context, req primary.ListTicketsRequest) (*ticket.Report, error) {
	if m.reportFn != nil {
		return m.reportFn(ctx, req)
	}
	report := ticket.Summarize(ticket.Filter(sampleTable(), req.Filter))
	return &report, nil
}

func (m *mockTicketService) LastUpdated(ctx context.Context) (string, error) {
	return "01/03/2025 10:00:00", nil
}

func (m *mockTicketService) Check(ctx context.Context) (*primary.CheckResponse, error) {
	return &primary.CheckResponse{}, nil
}

func sampleTable() *ticket.Table {
	t := &ticket.Table{Columns: []string{ticket.ColumnID, ticket.ColumnStatus, ticket.ColumnModule, ticket.ColumnOrder, ticket.ColumnAssignee}}
	rows := [][]string{
		{"1", "OPEN", "A", "1", ""},
		{"2", "DONE", "B", "2", "ANA"},
		{"3", "OPEN", "B", "1", "BRUNO"},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, ticket.FromRecord(t.Columns, r))
	}
	return t
}

// ============================================================================
// List Tests
// ============================================================================

func TestTicketAdapter_List(t *testing.T) {
	mock := &mockTicketService{}
	var buf bytes.Buffer
	adapter := NewTicketAdapter(mock, &buf)

	err := adapter.List(context.Background(), ticket.FilterSpec{Statuses: []string{"open"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "ID") || !strings.Contains(out, "RESPONSÁVEL") {
		t.Errorf("expected header in output, got: %s", out)
	}
	if !strings.Contains(out, "BRUNO") {
		t.Errorf("expected ticket 3 in output, got: %s", out)
	}
	if strings.Contains(out, "ANA") {
		t.Errorf("did not expect DONE ticket in output, got: %s", out)
	}
	if !strings.Contains(out, "2 of 3 tickets shown") {
		t.Errorf("expected count line, got: %s", out)
	}
	if !strings.Contains(out, "Last updated: 01/03/2025 10:00:00") {
		t.Errorf("expected last updated line, got: %s", out)
	}
	if !strings.Contains(out, "Version: 5d1f7c2a9e04b3c8") {
		t.Errorf("expected version line, got: %s", out)
	}
}

func TestTicketAdapter_List_EmptyAndSkipped(t *testing.T) {
	mock := &mockTicketService{
		listTicketsFn: func(ctx context.Context, req primary.ListTicketsRequest) (*primary.ListTicketsResponse, error) {
			return &primary.ListTicketsResponse{View: &ticket.Table{}, Total: 4, Skipped: 2, LastUpdated: ticket.NeverUpdated}, nil
		},
	}
	var buf bytes.Buffer
	adapter := NewTicketAdapter(mock, &buf)

	if err := adapter.List(context.Background(), ticket.FilterSpec{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "No tickets found") {
		t.Errorf("expected empty message, got: %s", out)
	}
	if !strings.Contains(out, "2 malformed rows skipped") {
		t.Errorf("expected skipped warning, got: %s", out)
	}
	if !strings.Contains(out, ticket.NeverUpdated) {
		t.Errorf("expected sentinel stamp, got: %s", out)
	}
}

func TestTicketAdapter_List_ServiceError(t *testing.T) {
	mock := &mockTicketService{
		listTicketsFn: func(ctx context.Context, req primary.ListTicketsRequest) (*primary.ListTicketsResponse, error) {
			return nil, ticket.ErrSourceUnavailable
		},
	}
	adapter := NewTicketAdapter(mock, &bytes.Buffer{})

	err := adapter.List(context.Background(), ticket.FilterSpec{})
	if !errors.Is(err, ticket.ErrSourceUnavailable) {
		t.Errorf("expected ErrSourceUnavailable, got %v", err)
	}
}

func TestTicketAdapter_Export(t *testing.T) {
	mock := &mockTicketService{}
	var buf bytes.Buffer
	adapter := NewTicketAdapter(mock, &buf)

	if err := adapter.Export(context.Background(), ticket.FilterSpec{Modules: []string{"B"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "ID,STATUS,MÓDULO,ORDEM,RESPONSÁVEL\n2,DONE,B,2,ANA\n3,OPEN,B,1,BRUNO\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
}

// ============================================================================
// Edit / Apply Tests
// ============================================================================

func TestTicketAdapter_Edit_KeepsUntouchedFields(t *testing.T) {
	mock := &mockTicketService{
		saveEditsFn: func(ctx context.Context, req primary.SaveEditsRequest) (*primary.SaveEditsResponse, error) {
			return &primary.SaveEditsResponse{Updated: []string{"2"}, Changed: 1, SavedAt: "02/03/2025 11:00:00"}, nil
		},
	}
	var buf bytes.Buffer
	adapter := NewTicketAdapter(mock, &buf)

	err := adapter.Edit(context.Background(), []string{"2"}, EditFields{Status: "in progress"}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(mock.lastSaveReq.Edits) != 1 {
		t.Fatalf("expected 1 edit, got %d", len(mock.lastSaveReq.Edits))
	}
	edit := mock.lastSaveReq.Edits[0]
	if edit.Status != "IN PROGRESS" {
		t.Errorf("expected normalized status IN PROGRESS, got %q", edit.Status)
	}
	if edit.Assignee != "ANA" {
		t.Errorf("expected assignee ANA kept, got %q", edit.Assignee)
	}
	if mock.lastSaveReq.ExpectedVersion != "5d1f7c2a9e04b3c8" {
		t.Errorf("expected loaded version as expected version, got %q", mock.lastSaveReq.ExpectedVersion)
	}
	if !strings.Contains(buf.String(), "✓ Saved 1 ticket(s) at 02/03/2025 11:00:00") {
		t.Errorf("expected success message, got: %s", buf.String())
	}
}

func TestTicketAdapter_Edit_ClearAssigneeAndExplicitVersion(t *testing.T) {
	mock := &mockTicketService{}
	adapter := NewTicketAdapter(mock, &bytes.Buffer{})

	err := adapter.Edit(context.Background(), []string{"3"}, EditFields{ClearAssignee: true}, "0a0b0c0d0e0f1011")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	edit := mock.lastSaveReq.Edits[0]
	if edit.Assignee != "" || edit.Status != "OPEN" {
		t.Errorf("expected cleared assignee and kept status, got %+v", edit)
	}
	if mock.lastSaveReq.ExpectedVersion != "0a0b0c0d0e0f1011" {
		t.Errorf("expected explicit version, got %q", mock.lastSaveReq.ExpectedVersion)
	}
}

func TestTicketAdapter_Edit_NothingToChange(t *testing.T) {
	mock := &mockTicketService{}
	adapter := NewTicketAdapter(mock, &bytes.Buffer{})

	err := adapter.Edit(context.Background(), []string{"1"}, EditFields{}, "")
	if err == nil {
		t.Fatal("expected error when no field is given")
	}
	if mock.saveCalls != 0 {
		t.Errorf("expected no save, got %d", mock.saveCalls)
	}
}

func TestTicketAdapter_Apply_ReportsUnmatched(t *testing.T) {
	mock := &mockTicketService{
		saveEditsFn: func(ctx context.Context, req primary.SaveEditsRequest) (*primary.SaveEditsResponse, error) {
			return &primary.SaveEditsResponse{
				Unmatched: []ticket.Ticket{{ID: "99"}, {}},
				SavedAt:   "02/03/2025 11:00:00",
			}, nil
		},
	}
	var buf bytes.Buffer
	adapter := NewTicketAdapter(mock, &buf)

	if err := adapter.Apply(context.Background(), []ticket.Ticket{{ID: "99"}, {}}, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "Dropped 99") {
		t.Errorf("expected dropped 99, got: %s", out)
	}
	if !strings.Contains(out, "Dropped (empty ID)") {
		t.Errorf("expected dropped empty ID, got: %s", out)
	}
}

func TestTicketAdapter_Apply_Failure(t *testing.T) {
	mock := &mockTicketService{
		saveEditsFn: func(ctx context.Context, req primary.SaveEditsRequest) (*primary.SaveEditsResponse, error) {
			return nil, ticket.ErrPersistFailed
		},
	}
	var buf bytes.Buffer
	adapter := NewTicketAdapter(mock, &buf)

	err := adapter.Apply(context.Background(), []ticket.Ticket{{ID: "1"}}, "")
	if !errors.Is(err, ticket.ErrPersistFailed) {
		t.Errorf("expected ErrPersistFailed, got %v", err)
	}
	if !strings.Contains(err.Error(), "changes were not saved") {
		t.Errorf("expected user-facing message, got %v", err)
	}
	if strings.Contains(buf.String(), "✓") {
		t.Errorf("did not expect success output, got: %s", buf.String())
	}
}

// ============================================================================
// Report / LastUpdated Tests
// ============================================================================

func TestTicketAdapter_Report(t *testing.T) {
	mock := &mockTicketService{}
	var buf bytes.Buffer
	adapter := NewTicketAdapter(mock, &buf)

	if err := adapter.Report(context.Background(), ticket.FilterSpec{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"Tickets: 3", "Chamados por Status", "Chamados por Módulo", "Chamados por Ordem", "OPEN", "██"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output, got: %s", want, out)
		}
	}
}

func TestTicketAdapter_LastUpdated(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewTicketAdapter(&mockTicketService{}, &buf)

	if err := adapter.LastUpdated(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.String() != "Última atualização: 01/03/2025 10:00:00\n" {
		t.Errorf("unexpected output %q", buf.String())
	}
}
