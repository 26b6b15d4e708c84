package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// DefaultDirName is the cache root directory used when no explicit path is
// configured. It is relative to the working directory, matching where
// existing deployments keep their caches.
const DefaultDirName = ".cache"

// Store is a content-addressed file store for raw API response bodies.
//
// Keys are hex digests (see Key); the entry for a key lives in a shard
// subdirectory named by the key's first two hex characters. All methods are
// safe for concurrent use: a single mutex serializes filesystem access, so
// a Get never observes a partially written or half-migrated entry.
//
// Design decision: We use one store-wide mutex rather than per-key locks
// because:
//  1. Entries are small and operations are a stat plus one read or write
//  2. The crawl is network-bound; lock contention is not measurable
//  3. It makes the migration-then-read sequence trivially atomic
type Store struct {
	// root is the cache directory, e.g. ".cache".
	root string

	// mu serializes all filesystem access through the store.
	mu sync.Mutex
}

// NewStore creates a Store rooted at dir and ensures the root directory
// exists. An empty dir selects DefaultDirName.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		dir = DefaultDirName
	}
	// MkdirAll tolerates an existing directory, so concurrent creation
	// and repeated runs are both safe.
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create cache directory %s: %w", dir, err)
	}
	return &Store{root: dir}, nil
}

// Root returns the cache root directory.
func (s *Store) Root() string {
	return s.root
}

// Get returns the cached body for key. The second return value is false on
// a cache miss; a miss is not an error.
//
// If the entry exists only at the legacy flat path (<root>/<key>.json), it
// is renamed to its sharded location before being read. The migration
// happens at most once per key: after it, the legacy path no longer exists
// and every later Get reads the sharded path directly.
func (s *Store) Get(key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	shardedPath := s.entryPath(key)

	// Migrate legacy flat-layout entries on first read.
	legacyPath := filepath.Join(s.root, key+".json")
	if _, err := os.Stat(legacyPath); err == nil {
		if err := s.ensureShardDir(key); err != nil {
			return nil, false, err
		}
		if err := os.Rename(legacyPath, shardedPath); err != nil {
			return nil, false, fmt.Errorf("failed to migrate legacy cache entry %s: %w", key, err)
		}
	}

	body, err := os.ReadFile(shardedPath)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cache entry %s: %w", key, err)
	}
	return body, true, nil
}

// Put stores body under key, overwriting any existing entry.
//
// The body is written to a temporary file in the shard directory and then
// renamed into place, so a concurrent Get sees either the old entry or the
// complete new one, never a partial write.
func (s *Store) Put(key string, body []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureShardDir(key); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.shardDir(key), key+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp cache file for %s: %w", key, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(body); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write cache entry %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close cache entry %s: %w", key, err)
	}
	if err := os.Rename(tmpPath, s.entryPath(key)); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to finalize cache entry %s: %w", key, err)
	}
	return nil
}

// Path returns the sharded file path an entry for key lives at. The file
// may or may not exist; the path is useful in error messages so an
// operator can inspect or remove a problematic entry.
func (s *Store) Path(key string) string {
	return s.entryPath(key)
}

// shardDir returns the shard subdirectory for key.
func (s *Store) shardDir(key string) string {
	return filepath.Join(s.root, key[:2])
}

// entryPath returns the sharded file path for key.
func (s *Store) entryPath(key string) string {
	return filepath.Join(s.shardDir(key), key+".json")
}

// ensureShardDir creates the shard subdirectory for key if it is absent.
func (s *Store) ensureShardDir(key string) error {
	if err := os.MkdirAll(s.shardDir(key), 0750); err != nil {
		return fmt.Errorf("failed to create cache shard directory for %s: %w", key, err)
	}
	return nil
}
