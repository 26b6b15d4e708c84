package graph

import (
	"reflect"
	"sync"
	"testing"
)

// TestAddNode tests node insertion and attribute merging.
func TestAddNode(t *testing.T) {
	t.Parallel()

	t.Run("duplicate add merges attributes", func(t *testing.T) {
		t.Parallel()

		g := New()
		g.AddNode("Category:A", Attrs{"content": "old"})
		g.AddNode("Category:A", Attrs{"content": "new", "touched": "yes"})

		if g.NodeCount() != 1 {
			t.Fatalf("expected 1 node, got %d", g.NodeCount())
		}
		attrs := g.NodeAttrs("Category:A")
		if attrs["content"] != "new" {
			t.Errorf("later attribute value should win, got %q", attrs["content"])
		}
		if attrs["touched"] != "yes" {
			t.Error("merge dropped a new attribute")
		}
	})

	t.Run("nil attrs adds a bare node", func(t *testing.T) {
		t.Parallel()

		g := New()
		g.AddNode("File:x.jpg", nil)
		if !g.HasNode("File:x.jpg") {
			t.Error("bare node was not added")
		}
	})

	t.Run("returned attrs are a copy", func(t *testing.T) {
		t.Parallel()

		g := New()
		g.AddNode("A", Attrs{"content": "v"})
		g.NodeAttrs("A")["content"] = "mutated"
		if g.NodeAttrs("A")["content"] != "v" {
			t.Error("NodeAttrs leaked internal state")
		}
	})
}

// TestAddEdge tests edge insertion semantics.
func TestAddEdge(t *testing.T) {
	t.Parallel()

	t.Run("creates endpoints implicitly", func(t *testing.T) {
		t.Parallel()

		g := New()
		g.AddEdge("A", "B")

		if !g.HasNode("A") || !g.HasNode("B") {
			t.Error("edge endpoints were not created")
		}
		if !g.HasEdge("A", "B") {
			t.Error("edge missing")
		}
		if g.HasEdge("B", "A") {
			t.Error("graph should be directed")
		}
	})

	t.Run("duplicate edge is a no-op", func(t *testing.T) {
		t.Parallel()

		g := New()
		g.AddEdge("A", "B")
		g.AddEdge("A", "B")

		if g.EdgeCount() != 1 {
			t.Errorf("expected 1 edge, got %d", g.EdgeCount())
		}
	})

	t.Run("multi-parent nodes are representable", func(t *testing.T) {
		t.Parallel()

		g := New()
		g.AddEdge("Category:A", "Category:C")
		g.AddEdge("Category:B", "Category:C")

		if g.EdgeCount() != 2 {
			t.Errorf("expected 2 edges, got %d", g.EdgeCount())
		}
	})
}

// TestIteration tests deterministic node/edge iteration.
func TestIteration(t *testing.T) {
	t.Parallel()

	g := New()
	g.AddEdge("B", "C")
	g.AddEdge("A", "C")
	g.AddEdge("A", "B")

	wantNodes := []string{"A", "B", "C"}
	if got := g.Nodes(); !reflect.DeepEqual(got, wantNodes) {
		t.Errorf("nodes not sorted: %v", got)
	}

	wantEdges := []Edge{{"A", "B"}, {"A", "C"}, {"B", "C"}}
	if got := g.Edges(); !reflect.DeepEqual(got, wantEdges) {
		t.Errorf("edges not ordered: %v", got)
	}

	if got := g.Successors("A"); !reflect.DeepEqual(got, []string{"B", "C"}) {
		t.Errorf("successors not sorted: %v", got)
	}
	if g.Degree("A") != 2 || g.Degree("C") != 0 {
		t.Error("degree mismatch")
	}
}

// TestConcurrentMutation exercises the mutex under parallel insertion.
func TestConcurrentMutation(t *testing.T) {
	t.Parallel()

	g := New()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				g.AddEdge("root", "child")
				g.AddNode("root", Attrs{"content": "x"})
			}
		}()
	}
	wg.Wait()

	if g.EdgeCount() != 1 {
		t.Errorf("duplicate edges under concurrency: %d", g.EdgeCount())
	}
	if g.NodeCount() != 2 {
		t.Errorf("expected 2 nodes, got %d", g.NodeCount())
	}
}
