// Package graph provides the directed graph the crawler builds.
//
// The graph is a thin container: nodes are page titles with an attribute
// map (revision content lives under the "content" key), edges are
// parent→child category membership relations. It enforces only the two
// invariants the crawler relies on: adding an existing node merges its
// attributes instead of erroring, and adding an existing edge is a no-op
// (the graph is simple, not a multigraph). Everything else — rendering,
// analysis, serialization formats beyond the report writers — is left to
// consumers iterating Nodes and Edges.
package graph
