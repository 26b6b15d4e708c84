package report

import (
	"io"

	"github.com/wikigraph/wikigraph/internal/graph"
	"github.com/wikigraph/wikigraph/internal/model"
)

// GraphWriter writes a graph in some export format.
//
// Design decision: We use an interface rather than free functions so the
// crawl command can collect the configured exports into one slice and
// run them uniformly, and so tests can swap in fakes.
type GraphWriter interface {
	// WriteGraph outputs the graph to the writer's destination.
	WriteGraph(g *graph.Directed) error
}

// SummaryWriter writes a crawl summary.
type SummaryWriter interface {
	// WriteSummary outputs the crawl report to the writer's destination.
	WriteSummary(r *model.CrawlReport) error
}

// baseWriter provides the shared output destination for writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
