// Package mediawiki implements the client for the MediaWiki Action API.
//
// The client executes logical queries (category membership listings and
// revision content fetches) as HTTP GET requests against a single API
// endpoint, consulting the disk cache before touching the network. Every
// response that does not carry an error indicator is cached verbatim, so
// repeated crawls of the same tree are nearly free.
//
// # Error model
//
//   - *APIError: the API answered with a top-level "error" member. Fatal to
//     the crawl; the response is not cached.
//   - *CacheCorruptionError: a previously cached body no longer parses as
//     JSON. Fatal; the operator must remove the entry (the error names its
//     file path). Bodies are validated before caching, so this indicates
//     on-disk damage, not a bad response.
//   - Transport errors (timeout, connection refused) propagate wrapped with
//     the request parameters for reproducibility.
//
// Truncated membership listings are not errors: FetchMembers returns a
// flag and the partial list, matching the API's own "continue" protocol.
// Pagination is deliberately not implemented.
package mediawiki
