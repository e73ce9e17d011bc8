package cli

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/sprintboard/internal/config"
	"github.com/example/sprintboard/internal/core/ticket"
	"github.com/example/sprintboard/internal/ports/primary"
)

func TestCheckRows(t *testing.T) {
	tests := []struct {
		name       string
		check      primary.CheckResponse
		wantStatus string
		wantDetail string
	}{
		{"clean", primary.CheckResponse{Rows: 3}, "✓", ""},
		{"skipped rows", primary.CheckResponse{Rows: 3, Skipped: 2}, "⚠", "2 malformed rows"},
		{"duplicate ids", primary.CheckResponse{Rows: 3, DuplicateIDs: []string{"7", "9"}}, "⚠", "7, 9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := checkRows(&tt.check)
			if got.Status != tt.wantStatus {
				t.Errorf("expected status %s, got %s", tt.wantStatus, got.Status)
			}
			if !strings.Contains(got.Details, tt.wantDetail) {
				t.Errorf("expected details to contain %q, got %q", tt.wantDetail, got.Details)
			}
		})
	}
}

func TestCheckModificationLog(t *testing.T) {
	tests := []struct {
		name     string
		check    primary.CheckResponse
		wantNote string
	}{
		{"never saved", primary.CheckResponse{LastUpdated: ticket.NeverUpdated}, ticket.NeverUpdated},
		{"file backend", primary.CheckResponse{LastUpdated: "10/03/2025 09:00:00"}, "last saved 10/03/2025 09:00:00"},
		{"sqlite backend", primary.CheckResponse{LastUpdated: "10/03/2025 09:00:00", LastActor: "ana"}, "last saved 10/03/2025 09:00:00 by ana"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := checkModificationLog(&tt.check)
			if got.Status != "✓" {
				t.Errorf("expected pass, got %s", got.Status)
			}
			if got.Note != tt.wantNote {
				t.Errorf("expected note %q, got %q", tt.wantNote, got.Note)
			}
		})
	}
}

func TestCheckConfig(t *testing.T) {
	if got := checkConfig(&config.Config{}); got.Status != "⚠" {
		t.Errorf("expected warning without config file, got %s", got.Status)
	}
	if got := checkConfig(&config.Config{File: "/x/.sprintboard/config.yaml"}); got.Status != "✓" {
		t.Errorf("expected pass with config file, got %s", got.Status)
	}
}

func TestCheckSaveLock(t *testing.T) {
	cfg := &config.Config{Tickets: config.TicketsConfig{Path: filepath.Join(t.TempDir(), "chamados.csv")}}

	got := checkSaveLock(context.Background(), cfg)
	if got.Status != "✓" {
		t.Errorf("expected lock check to pass, got %s: %s", got.Status, got.Details)
	}
}
