package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/example/sprintboard/internal/core/ticket"
	"github.com/example/sprintboard/internal/ports/secondary"
)

// ModificationLog implements secondary.ModificationLog as a single-line text file.
type ModificationLog struct {
	path string
	loc  *time.Location
	now  func() time.Time
}

// NewModificationLog creates a log at path stamping times in loc.
func NewModificationLog(path string, loc *time.Location) *ModificationLog {
	if loc == nil {
		loc = time.Local
	}
	return &ModificationLog{path: path, loc: loc, now: time.Now}
}

// WithClock replaces the time source.
func (l *ModificationLog) WithClock(now func() time.Time) *ModificationLog {
	l.now = now
	return l
}

// Record overwrites the log with the current time.
func (l *ModificationLog) Record(ctx context.Context) (string, error) {
	stamp := l.now().In(l.loc).Format(ticket.TimestampLayout)
	if err := os.WriteFile(l.path, []byte(stamp), 0644); err != nil {
		return "", fmt.Errorf("failed to write modification log: %w", err)
	}
	return stamp, nil
}

// Last returns the recorded stamp, or ticket.NeverUpdated if the file does not exist.
func (l *ModificationLog) Last(ctx context.Context) (string, error) {
	data, err := os.ReadFile(l.path)
	if errors.Is(err, fs.ErrNotExist) {
		return ticket.NeverUpdated, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read modification log: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Ensure ModificationLog implements the interface
var _ secondary.ModificationLog = (*ModificationLog)(nil)
