package model

import "time"

// CrawlReport summarizes one completed crawl for report writers and the
// run database. It is built incrementally by the crawler and finalized
// when the traversal ends.
type CrawlReport struct {
	// RootCategory is the normalized title the crawl started from.
	RootCategory string `json:"root_category"`

	// Endpoint is the API endpoint URL that was crawled.
	Endpoint string `json:"endpoint"`

	// NodeCount and EdgeCount describe the resulting graph.
	NodeCount int `json:"node_count"`
	EdgeCount int `json:"edge_count"`

	// CategoriesExplored is the number of categories whose membership was
	// fetched. Equal to the number of membership API calls issued.
	CategoriesExplored int `json:"categories_explored"`

	// TruncatedCategories lists categories whose membership listing hit
	// the API page-size cap. Their subtrees are incomplete: pagination is
	// not implemented, only detected. Empty means the crawl saw the full
	// member list of every category it visited.
	TruncatedCategories []string `json:"truncated_categories,omitempty"`

	// CacheHits and CacheMisses count API queries answered from the disk
	// cache versus fetched over the network.
	CacheHits   int `json:"cache_hits"`
	CacheMisses int `json:"cache_misses"`

	// StartedAt is when the crawl began; Elapsed is its total duration.
	StartedAt time.Time     `json:"started_at"`
	Elapsed   time.Duration `json:"elapsed"`
}

// NewCrawlReport creates a report for a crawl that is about to start.
func NewCrawlReport(root, endpoint string) *CrawlReport {
	return &CrawlReport{
		RootCategory: root,
		Endpoint:     endpoint,
		StartedAt:    time.Now(),
	}
}

// Truncated reports whether any visited category had more members than a
// single API page could return.
func (r *CrawlReport) Truncated() bool {
	return len(r.TruncatedCategories) > 0
}
