// Package web serves the ticket dashboard and its JSON API over HTTP.
package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/example/sprintboard/internal/adapters/chart"
	"github.com/example/sprintboard/internal/core/ticket"
	"github.com/example/sprintboard/internal/ctxutil"
	"github.com/example/sprintboard/internal/ports/primary"
	"github.com/example/sprintboard/internal/templates"
)

// ActorHeader names the request header carrying the editor's identity.
const ActorHeader = "X-Actor"

// Server serves the dashboard page, the JSON API, charts and metrics.
type Server struct {
	service  primary.TicketService
	renderer *chart.Renderer
	gatherer prometheus.Gatherer
	actor    string
	logger   *slog.Logger
	board    *template.Template
	mux      *http.ServeMux
}

// NewServer builds the routes. gatherer may be nil, in which case /metrics is not served.
// actor is used for saves whose request carries no X-Actor header.
func NewServer(service primary.TicketService, renderer *chart.Renderer, gatherer prometheus.Gatherer, actor string, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if renderer == nil {
		renderer = chart.NewRenderer(0, 0)
	}

	content, err := templates.GetBoard()
	if err != nil {
		return nil, fmt.Errorf("failed to load dashboard template: %w", err)
	}
	board, err := template.New("board").Parse(content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse dashboard template: %w", err)
	}

	s := &Server{
		service:  service,
		renderer: renderer,
		gatherer: gatherer,
		actor:    actor,
		logger:   logger,
		board:    board,
		mux:      http.NewServeMux(),
	}

	s.mux.HandleFunc("GET /{$}", s.handleBoard)
	s.mux.HandleFunc("POST /edits", s.handleEditForm)
	s.mux.HandleFunc("GET /api/tickets", s.handleListTickets)
	s.mux.HandleFunc("POST /api/tickets/edits", s.handleSaveEdits)
	s.mux.HandleFunc("GET /api/report", s.handleReport)
	s.mux.HandleFunc("GET /api/last-updated", s.handleLastUpdated)
	s.mux.HandleFunc("GET /charts/{facet}", s.handleChart)
	if gatherer != nil {
		s.mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	return s, nil
}

// Handler returns the HTTP handler with actor resolution applied.
func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor := r.Header.Get(ActorHeader)
		if actor == "" {
			actor = s.actor
		}
		if actor != "" {
			r = r.WithContext(ctxutil.WithActorID(r.Context(), actor))
		}
		s.mux.ServeHTTP(w, r)
	})
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("dashboard listening", "addr", addr)
		errc <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to serve: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down: %w", err)
		}
		return nil
	}
}

// ============================================================================
// JSON API
// ============================================================================

type filterJSON struct {
	Orders   []string `json:"order"`
	Modules  []string `json:"module"`
	Statuses []string `json:"status"`
	Query    string   `json:"q,omitempty"`
}

type ticketsJSON struct {
	Columns     []string            `json:"columns"`
	Rows        []map[string]string `json:"rows"`
	Shown       int                 `json:"shown"`
	Total       int                 `json:"total"`
	Skipped     int                 `json:"skipped"`
	LastUpdated string              `json:"last_updated"`
	Version     string              `json:"version"`
	Filter      filterJSON          `json:"filter"`
	Options     filterJSON          `json:"options"`
}

type saveEditsJSON struct {
	ExpectedVersion string              `json:"expected_version"`
	Rows            []map[string]string `json:"rows"`
}

type saveResultJSON struct {
	Updated   []string `json:"updated"`
	Unmatched []string `json:"unmatched"`
	Changed   int      `json:"changed"`
	SavedAt   string   `json:"saved_at"`
	Version   string   `json:"version"`
}

// editableColumns must all be present in a posted row. A missing column
// would otherwise be saved as an empty value.
var editableColumns = []string{ticket.ColumnID, ticket.ColumnStatus, ticket.ColumnAssignee}

type errorJSON struct {
	Error string `json:"error"`
}

func (s *Server) handleListTickets(w http.ResponseWriter, r *http.Request) {
	resp, err := s.service.ListTickets(r.Context(), primary.ListTicketsRequest{Filter: parseFilter(r.URL.Query())})
	if err != nil {
		s.sendServiceError(w, err)
		return
	}

	out := ticketsJSON{
		Columns:     resp.View.Header(),
		Rows:        make([]map[string]string, 0, resp.View.Len()),
		Shown:       resp.View.Len(),
		Total:       resp.Total,
		Skipped:     resp.Skipped,
		LastUpdated: resp.LastUpdated,
		Version:     resp.Version,
		Filter:      toFilterJSON(resp.Filter),
		Options:     toFilterJSON(resp.Options),
	}
	for i := range resp.View.Rows {
		out.Rows = append(out.Rows, rowJSON(resp.View, i))
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSaveEdits(w http.ResponseWriter, r *http.Request) {
	var req saveEditsJSON
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, http.StatusBadRequest, "invalid JSON body: %v", err)
		return
	}

	edits := make([]ticket.Ticket, 0, len(req.Rows))
	for i, row := range req.Rows {
		var t ticket.Ticket
		seen := make(map[string]bool, len(row))
		for col, v := range row {
			name := ticket.NormalizeColumn(col)
			seen[name] = true
			t.Set(name, v)
		}
		for _, col := range editableColumns {
			if !seen[col] {
				s.sendError(w, http.StatusBadRequest, "row %d is missing column %s", i+1, col)
				return
			}
		}
		edits = append(edits, t)
	}

	resp, err := s.service.SaveEdits(r.Context(), primary.SaveEditsRequest{
		Edits:           edits,
		ExpectedVersion: req.ExpectedVersion,
	})
	if err != nil {
		s.sendServiceError(w, err)
		return
	}

	out := saveResultJSON{
		Updated:   resp.Updated,
		Unmatched: make([]string, 0, len(resp.Unmatched)),
		Changed:   resp.Changed,
		SavedAt:   resp.SavedAt,
		Version:   resp.Version,
	}
	if out.Updated == nil {
		out.Updated = []string{}
	}
	for _, u := range resp.Unmatched {
		out.Unmatched = append(out.Unmatched, u.ID)
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.service.Report(r.Context(), primary.ListTicketsRequest{Filter: parseFilter(r.URL.Query())})
	if err != nil {
		s.sendServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"total":     report.Total,
		"by_status": nonNil(report.ByStatus),
		"by_module": nonNil(report.ByModule),
		"by_order":  nonNil(report.ByOrder),
	})
}

func (s *Server) handleLastUpdated(w http.ResponseWriter, r *http.Request) {
	stamp, err := s.service.LastUpdated(r.Context())
	if err != nil {
		s.sendServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"last_updated": stamp})
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	column := ticket.FacetColumn(r.PathValue("facet"))
	if guard := ticket.CanAggregate(ticket.FacetContext{Column: column}); !guard.Allowed {
		s.sendError(w, http.StatusBadRequest, "%s", guard.Reason)
		return
	}

	query := r.URL.Query()
	format := chart.PNG
	if f := query.Get("format"); f != "" {
		parsed, err := chart.ParseFormat(f)
		if err != nil {
			s.sendError(w, http.StatusBadRequest, "%v", err)
			return
		}
		format = parsed
	}

	report, err := s.service.Report(r.Context(), primary.ListTicketsRequest{Filter: parseFilter(query)})
	if err != nil {
		s.sendServiceError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := s.renderer.Render(&buf, column, report.Series(column), format); err != nil {
		if errors.Is(err, chart.ErrNoData) {
			s.sendError(w, http.StatusNotFound, "no tickets match the current filter")
			return
		}
		s.logger.Error("failed to render chart", "column", column, "error", err)
		s.sendError(w, http.StatusInternalServerError, "failed to render chart: %v", err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Cache-Control", "no-store")
	if _, err := w.Write(buf.Bytes()); err != nil {
		s.logger.Warn("writing chart response", "error", err)
	}
}

// ============================================================================
// Dashboard page
// ============================================================================

type optionView struct {
	Value    string
	Selected bool
}

type cellView struct {
	Column string
	Value  string
}

type rowView struct {
	Cells []cellView
}

type chartView struct {
	Title string
	URL   template.URL
}

type boardView struct {
	LastUpdated   string
	Version       string
	Saved         string
	Skipped       int
	Total         int
	Query         string
	RawQuery      string
	Columns       []string
	Rows          []rowView
	OrderOptions  []optionView
	ModuleOptions []optionView
	StatusOptions []optionView
	Charts        []chartView
}

func (s *Server) handleBoard(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	requested := parseFilter(query)
	resp, err := s.service.ListTickets(r.Context(), primary.ListTicketsRequest{Filter: requested})
	if err != nil {
		status, msg := statusFor(err)
		http.Error(w, msg, status)
		return
	}

	filterQuery := filterValues(requested).Encode()
	view := boardView{
		LastUpdated:   resp.LastUpdated,
		Version:       resp.Version,
		Saved:         query.Get("saved"),
		Skipped:       resp.Skipped,
		Total:         resp.Total,
		Query:         resp.Filter.Query,
		RawQuery:      filterQuery,
		Columns:       resp.View.Header(),
		OrderOptions:  options(resp.Options.Orders, resp.Filter.Orders),
		ModuleOptions: options(resp.Options.Modules, resp.Filter.Modules),
		StatusOptions: options(resp.Options.Statuses, resp.Filter.Statuses),
		Charts: []chartView{
			{Title: "Chamados por Status", URL: template.URL("/charts/status?" + filterQuery)},
			{Title: "Chamados por Módulo", URL: template.URL("/charts/module?" + filterQuery)},
			{Title: "Chamados por Ordem", URL: template.URL("/charts/order?" + filterQuery)},
		},
	}
	for i := range resp.View.Rows {
		record := resp.View.Record(i)
		row := rowView{Cells: make([]cellView, len(record))}
		for j, col := range view.Columns {
			row.Cells[j] = cellView{Column: col, Value: record[j]}
		}
		view.Rows = append(view.Rows, row)
	}

	var buf bytes.Buffer
	if err := s.board.Execute(&buf, view); err != nil {
		s.logger.Error("failed to render dashboard", "error", err)
		http.Error(w, "failed to render dashboard", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(buf.Bytes()); err != nil {
		s.logger.Warn("writing dashboard response", "error", err)
	}
}

func (s *Server) handleEditForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	ids := r.PostForm["id"]
	statuses := r.PostForm["status"]
	assignees := r.PostForm["assignee"]
	if len(statuses) != len(ids) || len(assignees) != len(ids) {
		http.Error(w, "form rows are incomplete", http.StatusBadRequest)
		return
	}

	edits := make([]ticket.Ticket, len(ids))
	for i, id := range ids {
		edits[i] = ticket.Ticket{ID: id}
		edits[i].Set(ticket.ColumnStatus, statuses[i])
		edits[i].Set(ticket.ColumnAssignee, assignees[i])
	}

	resp, err := s.service.SaveEdits(r.Context(), primary.SaveEditsRequest{
		Edits:           edits,
		ExpectedVersion: r.PostForm.Get("expected_version"),
	})
	if err != nil {
		status, msg := statusFor(err)
		http.Error(w, "Alterações não foram salvas: "+msg, status)
		return
	}

	back, err := url.ParseQuery(r.PostForm.Get("return"))
	if err != nil {
		back = url.Values{}
	}
	back.Set("saved", resp.SavedAt)
	http.Redirect(w, r, "/?"+back.Encode(), http.StatusSeeOther)
}

// ============================================================================
// Helpers
// ============================================================================

// parseFilter reads repeatable status/module/order params and q.
// An absent facet is unrestricted; a facet given only as empty (status=) allows nothing.
func parseFilter(q url.Values) ticket.FilterSpec {
	return ticket.FilterSpec{
		Orders:   facetValues(q, "order"),
		Modules:  facetValues(q, "module"),
		Statuses: facetValues(q, "status"),
		Query:    q.Get("q"),
	}
}

func facetValues(q url.Values, key string) []string {
	raw, ok := q[key]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// filterValues is the inverse of parseFilter.
func filterValues(spec ticket.FilterSpec) url.Values {
	v := url.Values{}
	addFacet(v, "order", spec.Orders)
	addFacet(v, "module", spec.Modules)
	addFacet(v, "status", spec.Statuses)
	if spec.Query != "" {
		v.Set("q", spec.Query)
	}
	return v
}

func addFacet(v url.Values, key string, values []string) {
	if values == nil {
		return
	}
	if len(values) == 0 {
		v.Set(key, "")
		return
	}
	for _, val := range values {
		v.Add(key, val)
	}
}

func options(all, selected []string) []optionView {
	chosen := make(map[string]bool, len(selected))
	for _, s := range selected {
		chosen[ticket.NormalizeValue(s)] = true
	}
	out := make([]optionView, len(all))
	for i, v := range all {
		out[i] = optionView{Value: v, Selected: chosen[v]}
	}
	return out
}

func toFilterJSON(spec ticket.FilterSpec) filterJSON {
	return filterJSON{
		Orders:   nonNil(spec.Orders),
		Modules:  nonNil(spec.Modules),
		Statuses: nonNil(spec.Statuses),
		Query:    spec.Query,
	}
}

func rowJSON(t *ticket.Table, i int) map[string]string {
	header := t.Header()
	record := t.Record(i)
	row := make(map[string]string, len(header))
	for j, col := range header {
		row[col] = record[j]
	}
	return row
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// statusFor maps service errors to an HTTP status and a message for the user.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, ticket.ErrVersionConflict):
		return http.StatusConflict, err.Error()
	case errors.Is(err, ticket.ErrLockTimeout),
		errors.Is(err, ticket.ErrSourceUnavailable),
		errors.Is(err, ticket.ErrSchemaMismatch):
		return http.StatusServiceUnavailable, err.Error()
	default:
		return http.StatusInternalServerError, err.Error()
	}
}

func (s *Server) sendServiceError(w http.ResponseWriter, err error) {
	status, msg := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	s.sendError(w, status, "%s", msg)
}

func (s *Server) sendError(w http.ResponseWriter, status int, format string, args ...any) {
	s.writeJSON(w, status, errorJSON{Error: fmt.Sprintf(format, args...)})
}

// writeJSON encodes value as JSON into w with the given status.
func (s *Server) writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(value); err != nil {
		s.logger.Warn("writing JSON response", "error", err)
	}
}
