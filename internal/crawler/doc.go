// Package crawler implements the depth-first exploration of a wiki
// category tree.
//
// # Architecture
//
// The Crawler walks the category graph iteratively with an explicit work
// stack rather than call-stack recursion, so arbitrarily deep trees cannot
// exhaust the stack and the traversal state is inspectable. Each visited
// category contributes its members as attributed nodes and parent→child
// edges to a graph.Directed; member categories are scheduled for
// exploration in turn.
//
// # Cycle breaking
//
// Category graphs contain cycles (a category can be a member of its own
// descendant). The crawler keeps a visited set scoped to one Crawl call
// and claims a category atomically before fetching its membership, so
// every category is fetched exactly once no matter how many parents reach
// it — including under concurrent sibling exploration.
//
// # Concurrency
//
// By default the crawl is sequential, one blocking fetch at a time. With
// WithWorkers(n), sibling subtrees are explored by up to n goroutines
// managed by an errgroup. Child categories are handed to the group with
// TryGo; when no worker slot is free the child is explored on the current
// worker's own stack instead, so the crawl never blocks waiting for a
// slot it may itself be occupying.
//
// # Failure policy
//
// Any API, cache, or transport error aborts the whole crawl and no graph
// is returned. The one tolerated degradation is a truncated membership
// listing (more members than the API returns per page): the partial list
// is used, a warning is logged, and the category is recorded in the crawl
// report.
package crawler
