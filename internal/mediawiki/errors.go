package mediawiki

import (
	"fmt"
	"sort"
	"strings"
)

// APIError is returned when the API response body carries a top-level
// "error" member. It preserves the request parameters so the failing call
// can be reproduced with curl against the same endpoint.
type APIError struct {
	// Code is the machine-readable error code, e.g. "invalidcategory".
	Code string

	// Info is the human-readable description from the API.
	Info string

	// Params are the query parameters of the failing request.
	Params map[string]string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("api error %s: %s (params: %s)", e.Code, e.Info, formatParams(e.Params))
}

// CacheCorruptionError is returned when a cached response body fails to
// parse as JSON. Cached bodies are validated at write time, so this means
// the on-disk entry was damaged after the fact. There is no self-healing:
// the operator removes the file at Path and re-runs.
type CacheCorruptionError struct {
	// Key is the cache key of the corrupt entry.
	Key string

	// Path is the file the corrupt entry lives at.
	Path string

	// Err is the underlying parse error.
	Err error
}

// Error implements the error interface.
func (e *CacheCorruptionError) Error() string {
	return fmt.Sprintf("corrupt cache entry %s at %s: %v", e.Key, e.Path, e.Err)
}

// Unwrap returns the underlying parse error.
func (e *CacheCorruptionError) Unwrap() error {
	return e.Err
}

// formatParams renders a parameter map in sorted key order for stable,
// greppable error messages.
func formatParams(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}
	return strings.Join(pairs, "&")
}
