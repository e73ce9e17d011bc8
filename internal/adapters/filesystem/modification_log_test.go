package filesystem_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/example/sprintboard/internal/adapters/filesystem"
	"github.com/example/sprintboard/internal/core/ticket"
)

func TestModificationLog_NeverUpdated(t *testing.T) {
	log := filesystem.NewModificationLog(filepath.Join(t.TempDir(), "ultima_atualizacao.txt"), time.UTC)

	got, err := log.Last(context.Background())
	if err != nil {
		t.Fatalf("Last failed: %v", err)
	}
	if got != ticket.NeverUpdated {
		t.Errorf("Last = %q, want %q", got, ticket.NeverUpdated)
	}
}

func TestModificationLog_RecordFormatsInZone(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ultima_atualizacao.txt")
	zone := time.FixedZone("BRT", -3*60*60)
	now := time.Date(2025, time.March, 7, 14, 5, 9, 0, time.UTC)
	log := filesystem.NewModificationLog(path, zone).WithClock(func() time.Time { return now })
	ctx := context.Background()

	stamp, err := log.Record(ctx)
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if stamp != "07/03/2025 11:05:09" {
		t.Errorf("stamp = %q, want 07/03/2025 11:05:09", stamp)
	}

	data, _ := os.ReadFile(path)
	if string(data) != stamp {
		t.Errorf("file content = %q, want %q", data, stamp)
	}

	got, err := log.Last(ctx)
	if err != nil {
		t.Fatalf("Last failed: %v", err)
	}
	if got != stamp {
		t.Errorf("Last = %q, want %q", got, stamp)
	}
}

func TestModificationLog_RecordTruncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ultima_atualizacao.txt")
	if err := os.WriteFile(path, []byte("a much longer line left by a previous writer\n"), 0644); err != nil {
		t.Fatal(err)
	}
	now := time.Date(2025, time.January, 2, 3, 4, 5, 0, time.UTC)
	log := filesystem.NewModificationLog(path, time.UTC).WithClock(func() time.Time { return now })

	if _, err := log.Record(context.Background()); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	data, _ := os.ReadFile(path)
	if string(data) != "02/01/2025 03:04:05" {
		t.Errorf("file content = %q", data)
	}
}

func TestModificationLog_RecordUnwritable(t *testing.T) {
	log := filesystem.NewModificationLog(filepath.Join(t.TempDir(), "missing", "log.txt"), time.UTC)

	if _, err := log.Record(context.Background()); err == nil {
		t.Error("expected error writing into a missing directory")
	}
}
