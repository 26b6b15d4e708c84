// Package log provides wikigraph's logging setup on top of the standard
// slog package.
//
// The one addition over plain slog is the TruncateHandler: crawl logging
// naturally wants to include page titles and occasionally content, and a
// single wiki revision can run to hundreds of kilobytes of wikitext.
// TruncateHandler caps every string attribute at a fixed length before it
// reaches the underlying handler, so verbose logging stays readable and a
// crawl log cannot balloon to gigabytes.
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, verbose)
//	slog.SetDefault(logger)
package log
