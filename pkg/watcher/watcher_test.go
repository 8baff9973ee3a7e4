package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func TestRelevant(t *testing.T) {
	tests := []struct {
		name string
		ev   fsnotify.Event
		want bool
	}{
		{"yaml write", fsnotify.Event{Name: "quick.yaml", Op: fsnotify.Write}, true},
		{"yml create", fsnotify.Event{Name: "x.YML", Op: fsnotify.Create}, true},
		{"remove", fsnotify.Event{Name: "a.yaml", Op: fsnotify.Remove}, true},
		{"chmod", fsnotify.Event{Name: "a.yaml", Op: fsnotify.Chmod}, false},
		{"swap file", fsnotify.Event{Name: ".a.yaml.swp", Op: fsnotify.Write}, false},
		{"markdown", fsnotify.Event{Name: "README.md", Op: fsnotify.Write}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := relevant(tc.ev); got != tc.want {
				t.Errorf("relevant(%v) = %v, want %v", tc.ev, got, tc.want)
			}
		})
	}
}

func TestWatcherDebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	var calls atomic.Int32
	fired := make(chan struct{}, 10)

	w, err := New(dir, func() {
		calls.Add(1)
		fired <- struct{}{}
	}, WithDebounce(50*time.Millisecond))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	path := filepath.Join(dir, "guide.yaml")
	for i := 0; i < 5; i++ {
		if err := os.WriteFile(path, []byte("id: g\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case <-fired:
	case <-time.After(3 * time.Second):
		t.Fatal("onChange not called")
	}

	// Allow any straggling timer to fire.
	time.Sleep(200 * time.Millisecond)
	if n := calls.Load(); n != 1 {
		t.Errorf("expected a single debounced reload, got %d", n)
	}

	cancel()
	select {
	case <-w.Done():
	case <-time.After(time.Second):
		t.Error("watcher did not stop after cancel")
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	var calls atomic.Int32
	w, err := New(dir, func() { calls.Add(1) }, WithDebounce(20*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(200 * time.Millisecond)
	if n := calls.Load(); n != 0 {
		t.Errorf("expected no reloads for non-YAML files, got %d", n)
	}
}

func TestStartMissingDir(t *testing.T) {
	w, err := New(filepath.Join(t.TempDir(), "nope"), func() {})
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(context.Background()); err == nil {
		t.Fatal("expected error watching a missing directory")
	}
	select {
	case <-w.Done():
	default:
		t.Error("Done should be closed after a failed Start")
	}
}
