package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/wikigraph/wikigraph/internal/graph"
)

// Delimiter separates fields in graph export lines.
const Delimiter = "\t"

// EdgeListWriter exports a graph as one edge per line:
//
//	parent<TAB>child
//
// Edges are ordered by source then target, so exports of the same graph
// are byte-identical across runs.
type EdgeListWriter struct {
	baseWriter
}

// NewEdgeListWriter creates an EdgeListWriter that outputs to output.
func NewEdgeListWriter(output io.Writer) *EdgeListWriter {
	return &EdgeListWriter{baseWriter: newBaseWriter(output)}
}

// WriteGraph outputs the edge list.
func (w *EdgeListWriter) WriteGraph(g *graph.Directed) error {
	bw := bufio.NewWriter(w.output)
	for _, e := range g.Edges() {
		if _, err := fmt.Fprintf(bw, "%s%s%s\n", e.From, Delimiter, e.To); err != nil {
			return fmt.Errorf("failed to write edge list: %w", err)
		}
	}
	return bw.Flush()
}

// AdjacencyListWriter exports a graph as one node per line followed by
// its direct successors:
//
//	node<TAB>child1<TAB>child2...
//
// Every node appears as a line head, including leaves with no successors,
// so the node set is recoverable from the file.
type AdjacencyListWriter struct {
	baseWriter
}

// NewAdjacencyListWriter creates an AdjacencyListWriter that outputs to
// output.
func NewAdjacencyListWriter(output io.Writer) *AdjacencyListWriter {
	return &AdjacencyListWriter{baseWriter: newBaseWriter(output)}
}

// WriteGraph outputs the adjacency list.
func (w *AdjacencyListWriter) WriteGraph(g *graph.Directed) error {
	bw := bufio.NewWriter(w.output)
	for _, node := range g.Nodes() {
		fields := append([]string{node}, g.Successors(node)...)
		if _, err := fmt.Fprintln(bw, strings.Join(fields, Delimiter)); err != nil {
			return fmt.Errorf("failed to write adjacency list: %w", err)
		}
	}
	return bw.Flush()
}
