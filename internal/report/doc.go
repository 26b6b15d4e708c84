// Package report writes crawl results for human and machine consumers.
//
// Two families of writers exist:
//
//   - Graph exports: tab-separated edge lists and adjacency lists, the
//     classic interchange formats downstream plotting and analysis tools
//     read. One relation per line, deterministic order.
//   - Crawl summaries: a plain-text summary for the terminal and a
//     Markdown summary (tables plus a truncation alert) for sharing.
//
// Writers take an io.Writer destination, so the same code serves stdout
// and files.
package report
