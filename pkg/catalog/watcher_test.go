package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcher_ReloadOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	write := func(body string) {
		t.Helper()
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("variables:\n  - path: score\n    type: number\n")

	w, err := NewWatcher(WatcherConfig{Path: path, DebounceInterval: 20 * time.Millisecond}, nil)
	if err != nil {
		t.Fatalf("NewWatcher error = %v", err)
	}

	reloaded := make(chan *Catalog, 4)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() {
		done <- w.Watch(ctx, func(c *Catalog) { reloaded <- c })
	}()

	// Give the directory watch a moment to register before writing.
	time.Sleep(100 * time.Millisecond)
	write("variables:\n  - path: score\n    type: number\n  - path: title\n    type: string\n")

	select {
	case cat := <-reloaded:
		if cat.Len() != 2 {
			t.Errorf("reloaded catalog Len = %d, want 2", cat.Len())
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}

	if err := w.Stop(); err != nil {
		t.Errorf("Stop error = %v", err)
	}
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch error = %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Watch did not return after Stop")
	}
}

func TestWatcher_InvalidFileKeepsWatching(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	if err := os.WriteFile(path, []byte("variables: []\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := NewWatcher(WatcherConfig{Path: path, DebounceInterval: 20 * time.Millisecond}, nil)
	if err != nil {
		t.Fatalf("NewWatcher error = %v", err)
	}

	reloaded := make(chan *Catalog, 4)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Watch(ctx, func(c *Catalog) { reloaded <- c })

	time.Sleep(100 * time.Millisecond)
	// A broken write must not deliver a catalog or kill the watcher.
	if err := os.WriteFile(path, []byte("variables: ["), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case cat := <-reloaded:
		t.Fatalf("broken catalog delivered: %d variables", cat.Len())
	case <-time.After(300 * time.Millisecond):
	}

	if err := os.WriteFile(path, []byte("variables:\n  - path: score\n    type: number\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case cat := <-reloaded:
		if cat.Len() != 1 {
			t.Errorf("Len = %d, want 1", cat.Len())
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for recovery reload")
	}

	if err := w.Stop(); err != nil {
		t.Errorf("Stop error = %v", err)
	}
}

func TestNewWatcher_RequiresPath(t *testing.T) {
	if _, err := NewWatcher(WatcherConfig{}, nil); err == nil {
		t.Error("NewWatcher with empty path succeeded, want error")
	}
}
