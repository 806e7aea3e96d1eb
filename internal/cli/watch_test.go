package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

func TestWatchLoop(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "diagram.json")
	if err := os.WriteFile(target, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()
	if err := w.Add(dir); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rebuilt := make(chan struct{}, 10)
	done := make(chan error, 1)
	go func() {
		done <- watchLoop(ctx, w, target, 10*time.Millisecond, func() error {
			rebuilt <- struct{}{}
			return nil
		}, log.New(io.Discard))
	}()

	// Unrelated files are ignored.
	if err := os.WriteFile(filepath.Join(dir, "other.json"), []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(target, []byte(`{"name":"x"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-rebuilt:
	case <-ctx.Done():
		t.Fatal("rebuild not triggered by a write to the diagram")
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("watchLoop() error: %v", err)
	}
}
