package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wikigraph/wikigraph/internal/graph"
	"github.com/wikigraph/wikigraph/internal/mediawiki"
	"github.com/wikigraph/wikigraph/internal/model"
)

// DefaultBatchSize is the number of member titles fetched per revision
// content request. It matches the API's title cap for unprivileged
// clients (mediawiki.MaxTitlesPerRequest).
const DefaultBatchSize = 50

// Crawler explores a category tree and builds its directed graph.
//
// A Crawler is reusable: each Crawl call owns its own visited set, graph,
// and report, so repeated or concurrent crawls in one process do not
// interfere with each other.
type Crawler struct {
	// client executes the API queries.
	client *mediawiki.Client

	// batchSize is how many member titles go into one content fetch.
	batchSize int

	// workers is the maximum number of concurrent explorations.
	// 1 means a fully sequential depth-first crawl.
	workers int

	// logger reports crawl progress.
	logger *slog.Logger
}

// CrawlerOption configures a Crawler.
type CrawlerOption func(*Crawler)

// WithBatchSize sets the content-fetch batch size. Values above the API's
// per-request title cap would make the API silently drop titles, so they
// are clamped to mediawiki.MaxTitlesPerRequest.
func WithBatchSize(n int) CrawlerOption {
	return func(c *Crawler) {
		if n > 0 {
			c.batchSize = min(n, mediawiki.MaxTitlesPerRequest)
		}
	}
}

// WithWorkers sets the maximum number of categories explored concurrently.
func WithWorkers(n int) CrawlerOption {
	return func(c *Crawler) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithCrawlerLogger sets a custom logger.
func WithCrawlerLogger(logger *slog.Logger) CrawlerOption {
	return func(c *Crawler) {
		c.logger = logger
	}
}

// New creates a Crawler using the given API client.
func New(client *mediawiki.Client, opts ...CrawlerOption) *Crawler {
	c := &Crawler{
		client:    client,
		batchSize: DefaultBatchSize,
		workers:   1,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = slog.Default()
	}

	return c
}

// crawlState is the shared mutable state of one Crawl invocation.
type crawlState struct {
	graph  *graph.Directed
	report *model.CrawlReport

	// mu guards visited and the report's mutable fields.
	mu      sync.Mutex
	visited map[string]bool

	// group schedules concurrent sibling exploration.
	group *errgroup.Group
}

// tryVisit atomically claims a category for exploration. It returns false
// if the category was already claimed, in which case the caller must not
// fetch it. Check and mark are one step so that a category reachable via
// multiple parents is fetched exactly once even when those parents are
// explored concurrently.
func (st *crawlState) tryVisit(category string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.visited[category] {
		return false
	}
	st.visited[category] = true
	return true
}

// recordExploration updates the report for one fetched category.
func (st *crawlState) recordExploration(category string, truncated bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.report.CategoriesExplored++
	if truncated {
		st.report.TruncatedCategories = append(st.report.TruncatedCategories, category)
	}
}

// Crawl explores the category tree rooted at rootCategory and returns the
// resulting graph and a crawl report.
//
// The crawl is all-or-nothing: on any error the partial graph is discarded
// and only the error (naming the category in progress) is returned.
// Truncated membership listings are the documented exception — they
// degrade to a partial subtree and are recorded in the report.
func (c *Crawler) Crawl(ctx context.Context, rootCategory string) (*graph.Directed, *model.CrawlReport, error) {
	root := model.NormalizeTitle(rootCategory)

	hits0, misses0 := c.client.CacheStats()
	st := &crawlState{
		graph:   graph.New(),
		report:  model.NewCrawlReport(root, c.client.Endpoint()),
		visited: make(map[string]bool),
	}

	c.logger.Info("starting crawl",
		"root", root,
		"endpoint", c.client.Endpoint(),
		"workers", c.workers,
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)
	st.group = g

	g.Go(func() error {
		return c.explore(gctx, st, root)
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	hits1, misses1 := c.client.CacheStats()
	st.report.NodeCount = st.graph.NodeCount()
	st.report.EdgeCount = st.graph.EdgeCount()
	st.report.CacheHits = hits1 - hits0
	st.report.CacheMisses = misses1 - misses0
	st.report.Elapsed = time.Since(st.report.StartedAt)

	c.logger.Info("crawl complete",
		"root", root,
		"nodes", st.report.NodeCount,
		"edges", st.report.EdgeCount,
		"categories", st.report.CategoriesExplored,
		"truncated", len(st.report.TruncatedCategories),
		"elapsed", st.report.Elapsed,
	)

	return st.graph, st.report, nil
}

// explore processes categories depth-first from its own work stack,
// starting at category. Child categories are offloaded to the errgroup
// when a worker slot is free and kept on the local stack otherwise.
func (c *Crawler) explore(ctx context.Context, st *crawlState, category string) error {
	stack := []string{category}

	for len(stack) > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !st.tryVisit(current) {
			continue
		}

		children, err := c.exploreOne(ctx, st, current)
		if err != nil {
			return err
		}

		// Push in reverse so the first child is explored first.
		for i := len(children) - 1; i >= 0; i-- {
			child := children[i]
			if c.workers > 1 && st.group.TryGo(func() error {
				return c.explore(ctx, st, child)
			}) {
				continue
			}
			stack = append(stack, child)
		}
	}
	return nil
}

// exploreOne fetches one category's membership and content, inserts its
// nodes and edges, and returns the member categories to explore next.
func (c *Crawler) exploreOne(ctx context.Context, st *crawlState, category string) ([]string, error) {
	members, truncated, err := c.client.FetchMembers(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("exploring %q: %w", category, err)
	}

	st.recordExploration(category, truncated)
	if truncated {
		c.logger.Warn("member listing truncated, subtree will be incomplete",
			"category", category,
			"members_returned", len(members),
		)
	}

	c.logger.Info("exploring category",
		"category", category,
		"members", len(members),
	)

	var children []string
	for _, batch := range SplitBatches(members, c.batchSize) {
		titles := make([]string, 0, len(batch))
		for _, member := range batch {
			titles = append(titles, member.Title)
		}

		contents, err := c.client.FetchContent(ctx, titles)
		if err != nil {
			return nil, fmt.Errorf("exploring %q: %w", category, err)
		}

		for _, member := range batch {
			title := model.NormalizeTitle(member.Title)

			content, ok := contents[member.PageID]
			if !ok {
				c.logger.Debug("member has no readable revision",
					"title", title,
					"pageid", member.PageID,
				)
			}

			st.graph.AddNode(title, graph.Attrs{"content": content})
			st.graph.AddEdge(category, title)

			if model.IsCategory(title) {
				children = append(children, title)
			}
		}
	}
	return children, nil
}
