package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/dgnsrekt/hanspeak/internal/cache"
)

func newTestStore(t *testing.T) (*cache.Manager, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := cache.NewManager(cache.Config{
		MemoryCapacity: 1 << 10,
		DiskCapacity:   1 << 20,
		DiskPath:       dir,
	})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store, dir
}

func TestClearCache(t *testing.T) {
	store, _ := newTestStore(t)
	_ = store.Put("a", []byte("one"))
	_ = store.Put("b", []byte("two"))
	now := time.Now()

	n, err := clearCache(store, time.Hour, now)
	if err != nil || n != 0 {
		t.Errorf("clearCache(older than 1h) = %d, %v; want 0, nil", n, err)
	}

	n, err = clearCache(store, 0, now)
	if err != nil || n != 2 {
		t.Errorf("clearCache(all) = %d, %v; want 2, nil", n, err)
	}
	if store.Contains("a") {
		t.Error("entry survived clear")
	}
}

func TestWriteCacheInfo(t *testing.T) {
	store, dir := newTestStore(t)
	_ = store.Put("a", []byte("one"))

	var buf bytes.Buffer
	if err := writeCacheInfo(&buf, dir, store.Stats()); err != nil {
		t.Fatalf("writeCacheInfo failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{dir, "Entries:", "1", "1.0 MiB"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPlural(t *testing.T) {
	if plural(1, "entry", "entries") != "entry" || plural(0, "entry", "entries") != "entries" {
		t.Error("plural picked the wrong form")
	}
}
