package cache

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"
	"time"
)

func writeGarbage(path string) error {
	return os.WriteFile(path, []byte("{not json"), 0644)
}

func TestFileCacheSetGet(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	if err := c.Set(ctx, "key", []byte("value"), 0); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	got, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if !hit {
		t.Fatal("Get() = miss, want hit")
	}
	if !bytes.Equal(got, []byte("value")) {
		t.Errorf("Get() = %q, want value", got)
	}
}

func TestFileCacheMiss(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	_, hit, err := c.Get(context.Background(), "absent")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if hit {
		t.Error("Get(absent) = hit, want miss")
	}
}

func TestFileCacheExpiry(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	if err := c.Set(ctx, "key", []byte("value"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(10 * time.Millisecond)

	if _, hit, _ := c.Get(ctx, "key"); hit {
		t.Error("Get() = hit after expiry, want miss")
	}
}

func TestFileCacheDelete(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	if err := c.Set(ctx, "key", []byte("value"), 0); err != nil {
		t.Fatal(err)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "key"); hit {
		t.Error("Get() = hit after delete, want miss")
	}
	// Deleting a missing key is not an error.
	if err := c.Delete(ctx, "absent"); err != nil {
		t.Errorf("Delete(absent) error: %v", err)
	}
}

func TestFileCacheClear(t *testing.T) {
	fc, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	for _, key := range []string{"a", "b", "c"} {
		if err := fc.Set(ctx, key, []byte(key), 0); err != nil {
			t.Fatal(err)
		}
	}
	if err := fc.(*FileCache).Clear(); err != nil {
		t.Fatalf("Clear() error: %v", err)
	}
	for _, key := range []string{"a", "b", "c"} {
		if _, hit, _ := fc.Get(ctx, key); hit {
			t.Errorf("Get(%s) = hit after Clear, want miss", key)
		}
	}
	// The cache stays usable after clearing.
	if err := fc.Set(ctx, "d", []byte("d"), 0); err != nil {
		t.Errorf("Set after Clear error: %v", err)
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	if err := c.Set(ctx, "key", []byte("value"), 0); err != nil {
		t.Fatal(err)
	}
	// Overwrite the entry file with garbage; the next read treats it as a miss.
	path := c.(*FileCache).path("key")
	if err := writeGarbage(path); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "key"); hit || err != nil {
		t.Errorf("Get(corrupt) = hit=%v err=%v, want miss without error", hit, err)
	}
}

func TestNullCache(t *testing.T) {
	c := NewNullCache()
	ctx := context.Background()

	if err := c.Set(ctx, "key", []byte("value"), 0); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if _, hit, err := c.Get(ctx, "key"); hit || err != nil {
		t.Errorf("Get() = hit=%v err=%v, want permanent miss", hit, err)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete() error: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close() error: %v", err)
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	layoutKey := k.LayoutKey("dh", "grid", "ch")
	if !strings.HasPrefix(layoutKey, "layout:") {
		t.Errorf("LayoutKey = %q, want layout: prefix", layoutKey)
	}
	renderKey := k.RenderKey("dh", "svg", "oh")
	if !strings.HasPrefix(renderKey, "render:") {
		t.Errorf("RenderKey = %q, want render: prefix", renderKey)
	}

	// Keys are deterministic and sensitive to every part.
	if k.LayoutKey("dh", "grid", "ch") != layoutKey {
		t.Error("LayoutKey not deterministic")
	}
	if k.LayoutKey("dh", "flow", "ch") == layoutKey {
		t.Error("LayoutKey ignores the algorithm")
	}
	if k.RenderKey("dh", "png", "oh") == renderKey {
		t.Error("RenderKey ignores the format")
	}
}

func TestHash(t *testing.T) {
	a := Hash([]byte("content"))
	if len(a) != 64 {
		t.Errorf("len(Hash()) = %d, want 64 hex chars", len(a))
	}
	if a != Hash([]byte("content")) {
		t.Error("Hash not deterministic")
	}
	if a == Hash([]byte("other")) {
		t.Error("Hash collision for different content")
	}
}
