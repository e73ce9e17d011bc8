package filesystem

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/example/sprintboard/internal/core/ticket"
	"github.com/example/sprintboard/internal/ports/secondary"
)

// TicketStore implements secondary.TicketStore over a comma-separated UTF-8 file.
type TicketStore struct {
	path string
}

// NewTicketStore creates a store for the CSV file at path.
func NewTicketStore(path string) *TicketStore {
	return &TicketStore{path: path}
}

// Path returns the ticket file path.
func (s *TicketStore) Path() string {
	return s.path
}

// Load reads and normalizes the full ticket table.
func (s *TicketStore) Load(ctx context.Context) (*ticket.Table, secondary.LoadStats, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, secondary.LoadStats{}, fmt.Errorf("%w: %s: %v", ticket.ErrSourceUnavailable, s.path, err)
	}
	defer f.Close()

	digest := xxhash.New()
	table, stats, err := ReadTable(io.TeeReader(f, digest))
	if err != nil {
		return nil, stats, fmt.Errorf("failed to load %s: %w", s.path, err)
	}
	stats.Version = contentVersion(digest)
	return table, stats, nil
}

// Save rewrites the ticket file atomically: the table is written to a
// temporary file in the same directory, synced, then renamed over the original.
// The existing file's permissions are kept.
func (s *TicketStore) Save(ctx context.Context, table *ticket.Table) (string, error) {
	mode := os.FileMode(0644)
	if info, err := os.Stat(s.path); err == nil {
		mode = info.Mode().Perm()
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ticket.ErrPersistFailed, err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	digest := xxhash.New()
	if err := WriteTable(io.MultiWriter(tmp, digest), table); err != nil {
		tmp.Close()
		return "", fmt.Errorf("%w: %v", ticket.ErrPersistFailed, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return "", fmt.Errorf("%w: %v", ticket.ErrPersistFailed, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("%w: %v", ticket.ErrPersistFailed, err)
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		return "", fmt.Errorf("%w: %v", ticket.ErrPersistFailed, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return "", fmt.Errorf("%w: %v", ticket.ErrPersistFailed, err)
	}
	committed = true

	return contentVersion(digest), nil
}

// contentVersion formats the digest of a file's bytes as its version.
func contentVersion(d *xxhash.Digest) string {
	return fmt.Sprintf("%016x", d.Sum64())
}

// ReadTable decodes a ticket table. Column names are normalized and the
// required columns must be present. Rows that fail to parse or whose field
// count differs from the header are skipped.
func ReadTable(r io.Reader) (*ticket.Table, secondary.LoadStats, error) {
	var stats secondary.LoadStats

	reader := csv.NewReader(r)
	reader.Comma = ','
	reader.ReuseRecord = false

	header, err := reader.Read()
	if err == io.EOF {
		return nil, stats, fmt.Errorf("%w: file is empty", ticket.ErrSchemaMismatch)
	}
	if err != nil {
		return nil, stats, fmt.Errorf("%w: unreadable header: %v", ticket.ErrSchemaMismatch, err)
	}

	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = ticket.NormalizeColumn(h)
	}
	if missing := ticket.MissingColumns(columns); len(missing) > 0 {
		return nil, stats, fmt.Errorf("%w: missing columns %s", ticket.ErrSchemaMismatch, strings.Join(missing, ", "))
	}

	table := &ticket.Table{Columns: columns, Rows: []ticket.Ticket{}}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				stats.Skipped++
				continue
			}
			return nil, stats, err
		}
		table.Rows = append(table.Rows, ticket.FromRecord(columns, record))
	}

	stats.Rows = len(table.Rows)
	return table, stats, nil
}

// WriteTable encodes a ticket table, header first, in column order.
func WriteTable(w io.Writer, table *ticket.Table) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(table.Header()); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i := range table.Rows {
		if err := writer.Write(table.Record(i)); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// Ensure TicketStore implements the interface
var _ secondary.TicketStore = (*TicketStore)(nil)
