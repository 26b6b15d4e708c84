package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Key derives the cache key for a set of request parameters.
//
// The key is the SHA-256 hex digest of the canonical JSON encoding of the
// parameter map. encoding/json writes map keys in sorted order, so the
// encoding is a pure function of the key/value pairs: two logically
// identical queries hash to the same key no matter how their parameter
// maps were built. This determinism is what makes the cache reusable
// across process runs and across call sites that assemble parameters in
// different orders.
func Key(params map[string]string) string {
	// Marshal of map[string]string cannot fail.
	canonical, _ := json.Marshal(params)
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:])
}
