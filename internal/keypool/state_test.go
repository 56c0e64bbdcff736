package keypool

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileStore(t *testing.T) {
	t.Run("round trip preserves membership", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "api_keys.json")
		store := NewFileStore(path)

		if err := store.Save([]string{"alpha", "beta"}, []string{"gamma"}); err != nil {
			t.Fatalf("Save: %v", err)
		}

		active, expired, err := store.Load()
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if len(active) != 2 || active[0] != "alpha" || active[1] != "beta" {
			t.Errorf("active = %v, want [alpha beta]", active)
		}
		if len(expired) != 1 || expired[0] != "gamma" {
			t.Errorf("expired = %v, want [gamma]", expired)
		}
	})

	t.Run("save overwrites prior content", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "api_keys.json")
		store := NewFileStore(path)

		if err := store.Save([]string{"alpha"}, nil); err != nil {
			t.Fatalf("Save: %v", err)
		}
		if err := store.Save(nil, []string{"alpha"}); err != nil {
			t.Fatalf("Save: %v", err)
		}

		active, expired, err := store.Load()
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if len(active) != 0 {
			t.Errorf("active = %v, want empty", active)
		}
		if len(expired) != 1 || expired[0] != "alpha" {
			t.Errorf("expired = %v, want [alpha]", expired)
		}
	})

	t.Run("missing file errors", func(t *testing.T) {
		store := NewFileStore(filepath.Join(t.TempDir(), "missing.json"))
		if _, _, err := store.Load(); err == nil {
			t.Fatal("expected error for missing state file")
		}
	})

	t.Run("malformed file errors", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "api_keys.json")
		if err := os.WriteFile(path, []byte("not json"), 0o600); err != nil {
			t.Fatal(err)
		}
		store := NewFileStore(path)
		if _, _, err := store.Load(); err == nil {
			t.Fatal("expected error for malformed state file")
		}
	})

	t.Run("no temp file left behind", func(t *testing.T) {
		dir := t.TempDir()
		store := NewFileStore(filepath.Join(dir, "api_keys.json"))
		if err := store.Save([]string{"alpha"}, nil); err != nil {
			t.Fatalf("Save: %v", err)
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatal(err)
		}
		if len(entries) != 1 || entries[0].Name() != "api_keys.json" {
			t.Errorf("dir entries = %v, want only api_keys.json", entries)
		}
	})
}

// TestPoolRoundTrip verifies load(save(pool)) reconstructs the same
// membership with quotas reset to the full limit.
func TestPoolRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "api_keys.json")
	store := NewFileStore(path)
	if err := store.Save([]string{"alpha", "beta"}, []string{"gamma"}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	p, err := New(store, WithLimit(7), WithTieBreak(lexFirst))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	// Spend some quota, then reload from disk.
	key, _ := p.Acquire()
	if err := p.Consume(key); err != nil {
		t.Fatalf("Consume: %v", err)
	}

	reloaded, err := New(store, WithLimit(7), WithTieBreak(lexFirst))
	if err != nil {
		t.Fatalf("New after reload: %v", err)
	}
	s := reloaded.Snapshot()
	if len(s.Active) != 2 || len(s.Expired) != 1 {
		t.Fatalf("reloaded active/expired = %d/%d, want 2/1", len(s.Active), len(s.Expired))
	}
	for k, remaining := range s.Active {
		if remaining != 7 {
			t.Errorf("reloaded key %q remaining = %d, want full limit 7", k, remaining)
		}
	}
}
