package primary

import (
	"context"

	"github.com/example/sprintboard/internal/core/ticket"
)

// TicketService defines the primary port for the ticket pipeline.
type TicketService interface {
	// ListTickets loads the table and returns the filtered view.
	ListTickets(ctx context.Context, req ListTicketsRequest) (*ListTicketsResponse, error)

	// SaveEdits merges edited rows into the table by ID, persists it, and records the save.
	SaveEdits(ctx context.Context, req SaveEditsRequest) (*SaveEditsResponse, error)

	// Report counts the filtered view per facet.
	Report(ctx context.Context, req ListTicketsRequest) (*ticket.Report, error)

	// LastUpdated returns the stamp of the last successful save, or ticket.NeverUpdated.
	LastUpdated(ctx context.Context) (string, error)

	// Check inspects the ticket file for problems worth reporting.
	Check(ctx context.Context) (*CheckResponse, error)
}

// ListTicketsRequest contains the user's filter selections.
type ListTicketsRequest struct {
	Filter ticket.FilterSpec
}

// ListTicketsResponse contains the visible rows and what the user may filter on.
type ListTicketsResponse struct {
	View *ticket.Table
	// Filter is the effective filter, with unrestricted facets resolved to all values.
	Filter ticket.FilterSpec
	// Options holds the sorted distinct values of each facet across the full table.
	Options     ticket.FilterSpec
	Total       int
	Skipped     int
	LastUpdated string
	// Version identifies the loaded table content. Pass it back as
	// SaveEditsRequest.ExpectedVersion to reject saves over a newer table.
	Version string
}

// SaveEditsRequest contains the edited rows of a view.
type SaveEditsRequest struct {
	Edits []ticket.Ticket
	// ExpectedVersion is the Version the editor loaded. Optional.
	ExpectedVersion string
}

// SaveEditsResponse contains the result of a save.
type SaveEditsResponse struct {
	Updated   []string
	Unmatched []ticket.Ticket
	Changed   int
	SavedAt   string
	// Version identifies the content just written.
	Version string
}

// CheckResponse summarizes the health of the ticket file.
type CheckResponse struct {
	Rows         int
	Skipped      int
	DuplicateIDs []string
	LastUpdated  string
	// LastActor is who made the last save, when the modification log records it.
	LastActor string
}
