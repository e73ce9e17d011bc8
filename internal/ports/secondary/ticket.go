package secondary

import (
	"context"

	"github.com/example/sprintboard/internal/core/ticket"
)

// TicketStore defines the secondary port for the authoritative ticket table.
type TicketStore interface {
	// Load reads the full table. Unparseable rows are skipped and counted.
	Load(ctx context.Context) (*ticket.Table, LoadStats, error)

	// Save rewrites the full table, header included, and returns the version
	// of the content written.
	Save(ctx context.Context, table *ticket.Table) (version string, err error)
}

// LoadStats describes a load.
type LoadStats struct {
	Rows    int
	Skipped int
	// Version identifies the exact content loaded. It changes whenever the
	// stored bytes change, however close together two saves are.
	Version string
}

// ModificationLog defines the secondary port for the last-save timestamp.
type ModificationLog interface {
	// Record stores the current time, replacing any previous stamp, and returns it.
	Record(ctx context.Context) (string, error)

	// Last returns the stored stamp, or ticket.NeverUpdated when none was recorded.
	Last(ctx context.Context) (string, error)
}

// ActorLog is implemented by modification logs that also remember who saved.
type ActorLog interface {
	// LastActor returns the actor of the last recorded save, or "" when unknown.
	LastActor(ctx context.Context) (string, error)
}

// SaveLocker serializes saves across processes sharing a ticket file.
type SaveLocker interface {
	// Lock blocks until the lock is held or ctx is done.
	Lock(ctx context.Context) (unlock func() error, err error)
}
