package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcher_EmitsOneEventPerBurst(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "songs.json")
	if err := os.WriteFile(target, []byte(`{"songs":[]}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	events := make(chan FileEvent, 4)
	w, err := NewWatcher(events, 100*time.Millisecond)
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	defer w.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx, target); err != nil {
		t.Fatalf("start: %v", err)
	}

	// Changes to other files in the directory are ignored.
	if err := os.WriteFile(filepath.Join(dir, "other.json"), []byte("{}"), 0o644); err != nil {
		t.Fatalf("write other: %v", err)
	}
	for i := range 3 {
		if err := os.WriteFile(target, []byte(`{"songs":[]}`+string(rune('0'+i))), 0o644); err != nil {
			t.Fatalf("rewrite: %v", err)
		}
	}

	select {
	case ev := <-events:
		abs, _ := filepath.Abs(target)
		if ev.Path != abs {
			t.Errorf("expected event for %s, got %s", abs, ev.Path)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("expected a debounced event")
	}

	select {
	case ev := <-events:
		t.Errorf("expected a single event for the burst, got another: %+v", ev)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_EmitsRemoval(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "songs.json")
	if err := os.WriteFile(target, []byte(`{"songs":[]}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	events := make(chan FileEvent, 4)
	w, err := NewWatcher(events, 50*time.Millisecond)
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	defer w.Stop()
	if err := w.Start(context.Background(), target); err != nil {
		t.Fatalf("start: %v", err)
	}

	if err := os.Remove(target); err != nil {
		t.Fatalf("remove: %v", err)
	}

	select {
	case ev := <-events:
		if ev.EventType != FileRemoved {
			t.Errorf("expected %s, got %s", FileRemoved, ev.EventType)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("expected a removal event")
	}
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	w, err := NewWatcher(make(chan FileEvent, 1), time.Millisecond)
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	w.Stop()
	w.Stop()
}
