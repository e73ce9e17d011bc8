// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/sprintboard/internal/core/ticket"
	"github.com/example/sprintboard/internal/ctxutil"
	"github.com/example/sprintboard/internal/ports/secondary"
)

// ModificationLog implements secondary.ModificationLog with a single-row SQLite table.
type ModificationLog struct {
	db  *sql.DB
	loc *time.Location
	now func() time.Time
}

// NewModificationLog creates a new SQLite modification log stamping times in loc.
func NewModificationLog(db *sql.DB, loc *time.Location) *ModificationLog {
	if loc == nil {
		loc = time.Local
	}
	return &ModificationLog{db: db, loc: loc, now: time.Now}
}

// WithClock replaces the time source.
func (l *ModificationLog) WithClock(now func() time.Time) *ModificationLog {
	l.now = now
	return l
}

// Record replaces the stored stamp with the current time.
func (l *ModificationLog) Record(ctx context.Context) (string, error) {
	stamp := l.now().In(l.loc).Format(ticket.TimestampLayout)

	var actor sql.NullString
	if a := ctxutil.ActorFromContext(ctx); a != "" {
		actor = sql.NullString{String: a, Valid: true}
	}

	_, err := l.db.ExecContext(ctx,
		`INSERT INTO modification_log (id, updated_at, actor, recorded_at) VALUES (1, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(id) DO UPDATE SET updated_at = excluded.updated_at, actor = excluded.actor, recorded_at = excluded.recorded_at`,
		stamp, actor,
	)
	if err != nil {
		return "", fmt.Errorf("failed to record modification: %w", err)
	}

	return stamp, nil
}

// Last returns the stored stamp, or ticket.NeverUpdated when nothing was recorded.
func (l *ModificationLog) Last(ctx context.Context) (string, error) {
	var stamp string
	err := l.db.QueryRowContext(ctx, "SELECT updated_at FROM modification_log WHERE id = 1").Scan(&stamp)
	if err == sql.ErrNoRows {
		return ticket.NeverUpdated, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read modification log: %w", err)
	}
	return stamp, nil
}

// LastActor returns who made the last recorded save, or "" if unknown.
func (l *ModificationLog) LastActor(ctx context.Context) (string, error) {
	var actor sql.NullString
	err := l.db.QueryRowContext(ctx, "SELECT actor FROM modification_log WHERE id = 1").Scan(&actor)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read modification log: %w", err)
	}
	return actor.String, nil
}

// Ensure ModificationLog implements the interfaces
var (
	_ secondary.ModificationLog = (*ModificationLog)(nil)
	_ secondary.ActorLog        = (*ModificationLog)(nil)
)
