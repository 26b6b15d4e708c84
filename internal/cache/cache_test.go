package cache

import (
	"os"
	"path/filepath"
	"testing"
)

// chdir changes the working directory for the duration of the test.
// It stands in for testing.T.Chdir, which requires Go 1.24.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}

// TestKey tests cache key derivation.
func TestKey(t *testing.T) {
	t.Parallel()

	t.Run("is order independent", func(t *testing.T) {
		t.Parallel()

		p1 := map[string]string{}
		p1["action"] = "query"
		p1["format"] = "json"
		p1["cmtitle"] = "Category:Test"

		p2 := map[string]string{}
		p2["cmtitle"] = "Category:Test"
		p2["format"] = "json"
		p2["action"] = "query"

		if Key(p1) != Key(p2) {
			t.Errorf("keys differ for identical parameter sets: %s vs %s", Key(p1), Key(p2))
		}
	})

	t.Run("differs for different parameters", func(t *testing.T) {
		t.Parallel()

		k1 := Key(map[string]string{"cmtitle": "Category:A"})
		k2 := Key(map[string]string{"cmtitle": "Category:B"})
		if k1 == k2 {
			t.Error("different parameter sets produced the same key")
		}
	})

	t.Run("is a fixed-length hex digest", func(t *testing.T) {
		t.Parallel()

		k := Key(map[string]string{"action": "query"})
		if len(k) != 64 {
			t.Errorf("expected 64 hex chars, got %d", len(k))
		}
		for _, c := range k {
			if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
				t.Errorf("unexpected character %q in key", c)
			}
		}
	})
}

// TestStore tests the sharded disk store.
func TestStore(t *testing.T) {
	t.Parallel()

	t.Run("miss on empty store", func(t *testing.T) {
		t.Parallel()

		s, err := NewStore(t.TempDir())
		if err != nil {
			t.Fatalf("failed to create store: %v", err)
		}

		_, ok, err := s.Get(Key(map[string]string{"a": "b"}))
		if err != nil {
			t.Fatalf("unexpected error on miss: %v", err)
		}
		if ok {
			t.Error("expected miss on empty store")
		}
	})

	t.Run("put then get round-trips the body", func(t *testing.T) {
		t.Parallel()

		s, err := NewStore(t.TempDir())
		if err != nil {
			t.Fatalf("failed to create store: %v", err)
		}

		key := Key(map[string]string{"action": "query"})
		body := []byte(`{"query":{"pages":[]}}`)

		if err := s.Put(key, body); err != nil {
			t.Fatalf("put failed: %v", err)
		}

		got, ok, err := s.Get(key)
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if !ok {
			t.Fatal("expected hit after put")
		}
		if string(got) != string(body) {
			t.Errorf("body mismatch: got %q, want %q", got, body)
		}
	})

	t.Run("put overwrites an existing entry", func(t *testing.T) {
		t.Parallel()

		s, err := NewStore(t.TempDir())
		if err != nil {
			t.Fatalf("failed to create store: %v", err)
		}

		key := Key(map[string]string{"action": "query"})
		if err := s.Put(key, []byte("old")); err != nil {
			t.Fatalf("first put failed: %v", err)
		}
		if err := s.Put(key, []byte("new")); err != nil {
			t.Fatalf("second put failed: %v", err)
		}

		got, ok, err := s.Get(key)
		if err != nil || !ok {
			t.Fatalf("get failed: ok=%v err=%v", ok, err)
		}
		if string(got) != "new" {
			t.Errorf("expected overwritten body, got %q", got)
		}
	})

	t.Run("writes to the sharded layout", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		s, err := NewStore(dir)
		if err != nil {
			t.Fatalf("failed to create store: %v", err)
		}

		key := Key(map[string]string{"a": "b"})
		if err := s.Put(key, []byte("body")); err != nil {
			t.Fatalf("put failed: %v", err)
		}

		sharded := filepath.Join(dir, key[:2], key+".json")
		if _, err := os.Stat(sharded); err != nil {
			t.Errorf("expected entry at sharded path %s: %v", sharded, err)
		}
	})

	t.Run("migrates legacy entries on first read", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		key := Key(map[string]string{"cmtitle": "Category:Legacy"})
		body := []byte(`{"query":{}}`)

		// Simulate a pre-sharding deployment: entry directly under root.
		legacy := filepath.Join(dir, key+".json")
		if err := os.WriteFile(legacy, body, 0600); err != nil {
			t.Fatalf("failed to seed legacy entry: %v", err)
		}

		s, err := NewStore(dir)
		if err != nil {
			t.Fatalf("failed to create store: %v", err)
		}

		got, ok, err := s.Get(key)
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if !ok {
			t.Fatal("expected hit via legacy migration")
		}
		if string(got) != string(body) {
			t.Errorf("body mismatch after migration: got %q", got)
		}

		// Moved, not copied.
		if _, err := os.Stat(legacy); !os.IsNotExist(err) {
			t.Error("legacy path still exists after migration")
		}
		sharded := filepath.Join(dir, key[:2], key+".json")
		if _, err := os.Stat(sharded); err != nil {
			t.Errorf("expected migrated entry at %s: %v", sharded, err)
		}

		// A second read comes from the sharded path.
		got, ok, err = s.Get(key)
		if err != nil || !ok {
			t.Fatalf("second get failed: ok=%v err=%v", ok, err)
		}
		if string(got) != string(body) {
			t.Errorf("body mismatch on second read: got %q", got)
		}
	})

	t.Run("empty dir selects the default", func(t *testing.T) {
		// Not parallel: changes the working directory.
		chdir(t, t.TempDir())

		s, err := NewStore("")
		if err != nil {
			t.Fatalf("failed to create store: %v", err)
		}
		if s.Root() != DefaultDirName {
			t.Errorf("expected root %q, got %q", DefaultDirName, s.Root())
		}
		if _, err := os.Stat(DefaultDirName); err != nil {
			t.Errorf("default cache directory was not created: %v", err)
		}
	})
}
