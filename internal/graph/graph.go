package graph

import (
	"sort"
	"sync"
)

// Attrs holds node attributes. The crawler stores revision content under
// the "content" key.
type Attrs map[string]string

// Edge is a directed parent→child relation.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Directed is a simple directed graph with attributed nodes.
//
// All methods are safe for concurrent use; the crawler's worker goroutines
// insert nodes and edges without external coordination.
type Directed struct {
	mu sync.RWMutex

	// nodes maps node name to its attribute map.
	nodes map[string]Attrs

	// succ maps a node to the set of its direct successors.
	succ map[string]map[string]struct{}

	// edgeCount tracks distinct edges; duplicates are not counted.
	edgeCount int
}

// New creates an empty directed graph.
func New() *Directed {
	return &Directed{
		nodes: make(map[string]Attrs),
		succ:  make(map[string]map[string]struct{}),
	}
}

// AddNode inserts a node or, if it already exists, merges attrs into its
// attribute map (later values win per key). A nil attrs adds a bare node.
func (g *Directed) AddNode(name string, attrs Attrs) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.addNodeLocked(name, attrs)
}

func (g *Directed) addNodeLocked(name string, attrs Attrs) {
	existing, ok := g.nodes[name]
	if !ok {
		existing = make(Attrs, len(attrs))
		g.nodes[name] = existing
	}
	for k, v := range attrs {
		existing[k] = v
	}
}

// AddEdge inserts the directed edge from→to, creating either endpoint if
// it does not exist yet. Adding an edge that is already present is a
// no-op.
func (g *Directed) AddEdge(from, to string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.addNodeLocked(from, nil)
	g.addNodeLocked(to, nil)

	set, ok := g.succ[from]
	if !ok {
		set = make(map[string]struct{})
		g.succ[from] = set
	}
	if _, dup := set[to]; dup {
		return
	}
	set[to] = struct{}{}
	g.edgeCount++
}

// HasNode reports whether the named node exists.
func (g *Directed) HasNode(name string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.nodes[name]
	return ok
}

// HasEdge reports whether the directed edge from→to exists.
func (g *Directed) HasEdge(from, to string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.succ[from][to]
	return ok
}

// NodeAttrs returns a copy of the attribute map for name, or nil if the
// node does not exist.
func (g *Directed) NodeAttrs(name string) Attrs {
	g.mu.RLock()
	defer g.mu.RUnlock()

	attrs, ok := g.nodes[name]
	if !ok {
		return nil
	}
	out := make(Attrs, len(attrs))
	for k, v := range attrs {
		out[k] = v
	}
	return out
}

// NodeCount returns the number of nodes.
func (g *Directed) NodeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.nodes)
}

// EdgeCount returns the number of distinct edges.
func (g *Directed) EdgeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.edgeCount
}

// Nodes returns all node names in sorted order. Sorting makes exports and
// reports deterministic across runs.
func (g *Directed) Nodes() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	names := make([]string, 0, len(g.nodes))
	for name := range g.nodes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Edges returns all edges ordered by source, then target.
func (g *Directed) Edges() []Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()

	edges := make([]Edge, 0, g.edgeCount)
	for from, set := range g.succ {
		for to := range set {
			edges = append(edges, Edge{From: from, To: to})
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].From != edges[j].From {
			return edges[i].From < edges[j].From
		}
		return edges[i].To < edges[j].To
	})
	return edges
}

// Successors returns the direct successors of name in sorted order.
func (g *Directed) Successors(name string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	set := g.succ[name]
	out := make([]string, 0, len(set))
	for to := range set {
		out = append(out, to)
	}
	sort.Strings(out)
	return out
}

// Degree returns the out-degree of name.
func (g *Directed) Degree(name string) int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.succ[name])
}
