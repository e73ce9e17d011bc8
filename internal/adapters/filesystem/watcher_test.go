package filesystem_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/example/sprintboard/internal/adapters/filesystem"
)

func TestWatch_NotifiesOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tickets.csv")
	if err := os.WriteFile(path, []byte("ID\n"), 0644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 1)
	done := make(chan error, 1)
	go func() {
		done <- filesystem.Watch(ctx, path, 10*time.Millisecond, func() {
			select {
			case changed <- struct{}{}:
			default:
			}
		})
	}()

	// Keep writing until the watcher has registered and reports a change.
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case <-changed:
			cancel()
			if err := <-done; err != nil {
				t.Errorf("Watch returned error: %v", err)
			}
			return
		case <-tick.C:
			_ = os.WriteFile(path, []byte("ID\n1\n"), 0644)
		case <-deadline:
			t.Fatal("no change notification within 5s")
		}
	}
}

func TestWatch_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tickets.csv")

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	calls := 0
	go func() {
		time.Sleep(50 * time.Millisecond)
		_ = os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0644)
	}()

	if err := filesystem.Watch(ctx, path, 10*time.Millisecond, func() { calls++ }); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	if calls != 0 {
		t.Errorf("onChange called %d times for an unrelated file", calls)
	}
}
