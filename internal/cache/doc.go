// Package cache provides the content-addressed disk cache for API responses.
//
// # Layout
//
// Entries live under a root directory (".cache" by default) in a sharded
// layout: the entry for key K is stored at <root>/<K[:2]>/<K>.json, where K
// is the hex digest of the request parameters. Sharding keeps directory
// sizes manageable for large crawls; a single Wikimedia Commons subtree can
// produce tens of thousands of entries.
//
// Earlier deployments used a flat layout with every entry directly under
// the root. Get migrates such legacy entries to their sharded location the
// first time they are read (a rename, not a copy), so old caches keep
// working without a separate migration step and the legacy path is never
// read again afterward.
//
// # Lifetime
//
// Entries have no TTL and are never evicted. Wiki revision responses are
// immutable enough in practice that re-fetching is pure waste; an operator
// who wants fresh data deletes the cache directory.
//
// Design decision: We store raw response bodies rather than decoded
// structures because:
//  1. The bytes round-trip exactly, so a cached response is
//     indistinguishable from a fresh one to the client
//  2. The cache stays useful if response decoding gains fields later
//  3. Corruption is detectable at read time by the JSON parse in the client
package cache
