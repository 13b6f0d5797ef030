package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCountCacheEntries(t *testing.T) {
	dir := t.TempDir()

	// Sharded layout entries plus a stray non-entry file.
	shard := filepath.Join(dir, "ab")
	if err := os.MkdirAll(shard, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"one.json", "two.json"} {
		if err := os.WriteFile(filepath.Join(shard, name), []byte("{}"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	count, err := countCacheEntries(dir)
	if err != nil {
		t.Fatalf("countCacheEntries: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
}

func TestCountCacheEntriesMissingDir(t *testing.T) {
	count, err := countCacheEntries(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("countCacheEntries: %v", err)
	}
	if count != 0 {
		t.Errorf("count = %d, want 0", count)
	}
}
