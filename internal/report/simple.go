package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/wikigraph/wikigraph/internal/model"
)

// SimpleWriter outputs a human-readable crawl summary for the terminal.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors because it pipes cleanly to files and other tools and works
// in every terminal.
type SimpleWriter struct {
	baseWriter
}

// NewSimpleWriter creates a SimpleWriter that outputs to output.
func NewSimpleWriter(output io.Writer) *SimpleWriter {
	return &SimpleWriter{baseWriter: newBaseWriter(output)}
}

// WriteSummary outputs the crawl summary.
func (w *SimpleWriter) WriteSummary(r *model.CrawlReport) error {
	var sb strings.Builder

	sb.WriteString(strings.Repeat("=", 60) + "\n")
	sb.WriteString("wikigraph crawl summary\n")
	sb.WriteString(strings.Repeat("=", 60) + "\n")
	fmt.Fprintf(&sb, "Root category:       %s\n", r.RootCategory)
	fmt.Fprintf(&sb, "Endpoint:            %s\n", r.Endpoint)
	fmt.Fprintf(&sb, "Started:             %s\n", r.StartedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&sb, "Elapsed:             %s\n", r.Elapsed.Round(timeRounding))
	sb.WriteString(strings.Repeat("-", 60) + "\n")
	fmt.Fprintf(&sb, "Nodes:               %d\n", r.NodeCount)
	fmt.Fprintf(&sb, "Edges:               %d\n", r.EdgeCount)
	fmt.Fprintf(&sb, "Categories explored: %d\n", r.CategoriesExplored)
	fmt.Fprintf(&sb, "Cache hits/misses:   %d/%d\n", r.CacheHits, r.CacheMisses)

	if r.Truncated() {
		sb.WriteString(strings.Repeat("-", 60) + "\n")
		fmt.Fprintf(&sb, "WARNING: %d categories exceeded the listing page size;\n", len(r.TruncatedCategories))
		sb.WriteString("their subtrees are incomplete (pagination is not implemented):\n")
		for _, cat := range r.TruncatedCategories {
			fmt.Fprintf(&sb, "  - %s\n", cat)
		}
	}
	sb.WriteString(strings.Repeat("=", 60) + "\n")

	_, err := io.WriteString(w.output, sb.String())
	return err
}
