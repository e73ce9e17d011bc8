package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/sprintboard/internal/core/ticket"
	"github.com/example/sprintboard/internal/ctxutil"
	"github.com/example/sprintboard/internal/ports/primary"
	"github.com/example/sprintboard/internal/ports/secondary"
)

// TicketServiceImpl implements the TicketService interface.
type TicketServiceImpl struct {
	store   secondary.TicketStore
	modLog  secondary.ModificationLog
	locker  secondary.SaveLocker
	metrics *Metrics
	logger  *slog.Logger
}

// NewTicketService creates a new TicketService with injected dependencies.
// locker may be nil, in which case saves are not serialized.
func NewTicketService(
	store secondary.TicketStore,
	modLog secondary.ModificationLog,
	locker secondary.SaveLocker,
	metrics *Metrics,
	logger *slog.Logger,
) *TicketServiceImpl {
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TicketServiceImpl{
		store:   store,
		modLog:  modLog,
		locker:  locker,
		metrics: metrics,
		logger:  logger,
	}
}

// ListTickets loads the table and applies the filter.
func (s *TicketServiceImpl) ListTickets(ctx context.Context, req primary.ListTicketsRequest) (*primary.ListTicketsResponse, error) {
	table, stats, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	last, err := s.modLog.Last(ctx)
	if err != nil {
		return nil, err
	}

	return &primary.ListTicketsResponse{
		View:        ticket.Filter(table, req.Filter),
		Filter:      req.Filter.Resolve(table),
		Options:     ticket.DefaultSpec(table),
		Total:       table.Len(),
		Skipped:     stats.Skipped,
		LastUpdated: last,
		Version:     stats.Version,
	}, nil
}

// SaveEdits reconciles edited rows into the authoritative table, persists it,
// and records the modification. The whole sequence runs under the save lock.
func (s *TicketServiceImpl) SaveEdits(ctx context.Context, req primary.SaveEditsRequest) (*primary.SaveEditsResponse, error) {
	if s.locker != nil {
		unlock, err := s.locker.Lock(ctx)
		if err != nil {
			s.metrics.Saves.WithLabelValues(SaveResultError).Inc()
			return nil, err
		}
		defer func() {
			if err := unlock(); err != nil {
				s.logger.Warn("failed to release save lock", "error", err)
			}
		}()
	}

	table, stats, err := s.load(ctx)
	if err != nil {
		s.metrics.Saves.WithLabelValues(SaveResultError).Inc()
		return nil, err
	}

	// Guard: the table must not have changed since the editor loaded it
	guard := ticket.CanSave(ticket.SaveContext{
		ExpectedVersion: req.ExpectedVersion,
		CurrentVersion:  stats.Version,
	})
	if !guard.Allowed {
		s.metrics.Saves.WithLabelValues(SaveResultConflict).Inc()
		return nil, fmt.Errorf("%w: %s", ticket.ErrVersionConflict, guard.Reason)
	}

	merged, result := ticket.Reconcile(table, req.Edits)
	if len(result.Unmatched) > 0 {
		s.metrics.DroppedEdits.Add(float64(len(result.Unmatched)))
		s.logger.Warn("dropping edited rows with no matching ticket ID",
			"count", len(result.Unmatched), "ids", unmatchedIDs(result.Unmatched))
	}

	version, err := s.store.Save(ctx, merged)
	if err != nil {
		if errors.Is(err, ticket.ErrPersistFailed) {
			s.metrics.Saves.WithLabelValues(SaveResultPersistFail).Inc()
		} else {
			s.metrics.Saves.WithLabelValues(SaveResultError).Inc()
		}
		s.logger.Error("failed to save tickets", "error", err)
		return nil, fmt.Errorf("failed to save tickets: %w", err)
	}

	stamp, err := s.modLog.Record(ctx)
	if err != nil {
		s.metrics.Saves.WithLabelValues(SaveResultError).Inc()
		return nil, fmt.Errorf("tickets saved but failed to record modification: %w", err)
	}

	s.metrics.Saves.WithLabelValues(SaveResultOK).Inc()
	s.metrics.LastSave.Set(float64(time.Now().Unix()))
	s.logger.Info("tickets saved",
		"actor", ctxutil.ActorFromContext(ctx),
		"updated", len(result.Updated),
		"changed", result.Changed,
		"unmatched", len(result.Unmatched),
		"at", stamp)

	return &primary.SaveEditsResponse{
		Updated:   result.Updated,
		Unmatched: result.Unmatched,
		Changed:   result.Changed,
		SavedAt:   stamp,
		Version:   version,
	}, nil
}

// Report counts the filtered view per facet.
func (s *TicketServiceImpl) Report(ctx context.Context, req primary.ListTicketsRequest) (*ticket.Report, error) {
	table, _, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	report := ticket.Summarize(ticket.Filter(table, req.Filter))
	return &report, nil
}

// LastUpdated returns the stamp of the last successful save.
func (s *TicketServiceImpl) LastUpdated(ctx context.Context) (string, error) {
	return s.modLog.Last(ctx)
}

// Check loads the table and reports row counts and duplicate IDs.
func (s *TicketServiceImpl) Check(ctx context.Context) (*primary.CheckResponse, error) {
	table, stats, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	last, err := s.modLog.Last(ctx)
	if err != nil {
		return nil, err
	}

	resp := &primary.CheckResponse{
		Rows:         stats.Rows,
		Skipped:      stats.Skipped,
		DuplicateIDs: table.DuplicateIDs(),
		LastUpdated:  last,
	}

	// Only some backends remember who saved
	if actors, ok := s.modLog.(secondary.ActorLog); ok && last != ticket.NeverUpdated {
		actor, err := actors.LastActor(ctx)
		if err != nil {
			return nil, err
		}
		resp.LastActor = actor
	}

	return resp, nil
}

// load reads the authoritative table and records load metrics.
func (s *TicketServiceImpl) load(ctx context.Context) (*ticket.Table, secondary.LoadStats, error) {
	table, stats, err := s.store.Load(ctx)
	if err != nil {
		s.logger.Error("failed to load tickets", "error", err)
		return nil, stats, fmt.Errorf("failed to load tickets: %w", err)
	}

	s.metrics.Loads.Inc()
	if stats.Skipped > 0 {
		s.metrics.SkippedRows.Add(float64(stats.Skipped))
		s.logger.Warn("skipped malformed ticket rows", "skipped", stats.Skipped)
	}
	s.logger.Debug("tickets loaded", "rows", stats.Rows, "skipped", stats.Skipped)

	return table, stats, nil
}

func unmatchedIDs(rows []ticket.Ticket) []string {
	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}
	return ids
}

// Ensure TicketServiceImpl implements the interface
var _ primary.TicketService = (*TicketServiceImpl)(nil)
