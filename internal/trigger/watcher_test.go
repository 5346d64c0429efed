package trigger

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func startWatcher(t *testing.T, dir string, ids []string) (*Bus, <-chan string) {
	t.Helper()
	bus := NewBus(16)
	sub := bus.Subscribe()
	w := NewWatcher(dir, ids, bus)
	if err := w.EnsureDir(); err != nil {
		t.Fatalf("EnsureDir: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Errorf("watcher did not stop")
		}
	})
	// Give the fsnotify watch a moment to establish before creating files.
	time.Sleep(100 * time.Millisecond)
	return bus, sub
}

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("touch %s: %v", path, err)
	}
}

func TestWatcherPublishesKnownID(t *testing.T) {
	dir := t.TempDir()
	_, sub := startWatcher(t, dir, []string{"ram", "vpn"})

	touch(t, filepath.Join(dir, "ram"))
	if got := recvWithin(t, sub, 2*time.Second); got != "ram" {
		t.Fatalf("got %q, want ram", got)
	}
}

func TestWatcherIgnoresUnknownFilename(t *testing.T) {
	dir := t.TempDir()
	_, sub := startWatcher(t, dir, []string{"ram"})

	touch(t, filepath.Join(dir, "not-a-monitor"))
	select {
	case id := <-sub:
		t.Fatalf("unexpected trigger %q", id)
	case <-time.After(400 * time.Millisecond):
	}
}

func TestWatcherDebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	_, sub := startWatcher(t, dir, []string{"volume"})

	path := filepath.Join(dir, "volume")
	for i := 0; i < 5; i++ {
		touch(t, path)
		time.Sleep(10 * time.Millisecond)
	}

	if got := recvWithin(t, sub, 2*time.Second); got != "volume" {
		t.Fatalf("got %q, want volume", got)
	}
	// The burst fits one debounce window, so no further event may follow.
	select {
	case id := <-sub:
		t.Fatalf("burst produced a second trigger %q", id)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcherDistinctIDsInOneWindow(t *testing.T) {
	dir := t.TempDir()
	_, sub := startWatcher(t, dir, []string{"ram", "vpn"})

	touch(t, filepath.Join(dir, "ram"))
	touch(t, filepath.Join(dir, "vpn"))

	got := map[string]bool{}
	got[recvWithin(t, sub, 2*time.Second)] = true
	got[recvWithin(t, sub, 2*time.Second)] = true
	if !got["ram"] || !got["vpn"] {
		t.Fatalf("expected both ids, got %v", got)
	}
}

func TestEnsureDirCreatesMissing(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "triggers")
	w := NewWatcher(dir, nil, NewBus(1))
	if err := w.EnsureDir(); err != nil {
		t.Fatalf("EnsureDir: %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Fatalf("dir not created: %v", err)
	}
}
