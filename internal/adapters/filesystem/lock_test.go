package filesystem_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/example/sprintboard/internal/adapters/filesystem"
	"github.com/example/sprintboard/internal/core/ticket"
)

func TestFileLock_ExclusiveUntilUnlocked(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tickets.csv.lock")
	ctx := context.Background()

	first := filesystem.NewFileLock(path, time.Second)
	unlock, err := first.Lock(ctx)
	if err != nil {
		t.Fatalf("Lock failed: %v", err)
	}

	second := filesystem.NewFileLock(path, 150*time.Millisecond)
	if _, err := second.Lock(ctx); !errors.Is(err, ticket.ErrLockTimeout) {
		t.Errorf("expected ErrLockTimeout while held, got %v", err)
	}

	if err := unlock(); err != nil {
		t.Fatalf("unlock failed: %v", err)
	}

	unlock2, err := second.Lock(ctx)
	if err != nil {
		t.Fatalf("Lock after release failed: %v", err)
	}
	_ = unlock2()
}
