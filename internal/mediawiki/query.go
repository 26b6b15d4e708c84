package mediawiki

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/wikigraph/wikigraph/internal/model"
)

// MaxMemberLimit is the API's documented per-request cap for category
// membership listings. Requesting more is silently clamped server-side.
//
// Docs: https://www.mediawiki.org/wiki/API:Categorymembers
const MaxMemberLimit = 500

// MaxTitlesPerRequest is the API's cap on titles per revision query for
// unprivileged clients. Callers batching content fetches must stay at or
// under this.
const MaxTitlesPerRequest = 50

// FetchMembers lists the members of a category.
//
// truncated reports that the category has more members than one page of
// results could carry (the response has a "continue" marker and
// batchcomplete is unset). Pagination is not implemented: the caller gets
// the partial list and is expected to surface the condition.
func (c *Client) FetchMembers(ctx context.Context, category string) (members []model.Member, truncated bool, err error) {
	params := map[string]string{
		"action":        "query",
		"format":        "json",
		"formatversion": "2",
		"list":          "categorymembers",
		"cmlimit":       strconv.Itoa(c.memberLimit),
		"cmtitle":       category,
	}

	raw, err := c.Query(ctx, params)
	if err != nil {
		return nil, false, err
	}

	var resp struct {
		BatchComplete bool            `json:"batchcomplete"`
		Continue      json.RawMessage `json:"continue"`
		Query         struct {
			CategoryMembers []model.Member `json:"categorymembers"`
		} `json:"query"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, false, fmt.Errorf("failed to decode members of %q: %w", category, err)
	}

	truncated = !resp.BatchComplete && len(resp.Continue) > 0
	return resp.Query.CategoryMembers, truncated, nil
}

// FetchContent fetches the latest revision content for a set of page
// titles in a single batched request. The result maps page ID to the main
// slot's wikitext; pages with no readable revision are absent from the map.
//
// Titles are sorted before the request is built so that the same set of
// titles always produces the same cache key regardless of input order.
func (c *Client) FetchContent(ctx context.Context, titles []string) (map[int64]string, error) {
	sorted := make([]string, len(titles))
	copy(sorted, titles)
	sort.Strings(sorted)

	params := map[string]string{
		"action":        "query",
		"format":        "json",
		"formatversion": "1",
		"prop":          "revisions",
		"rvslots":       "*",
		"rvprop":        "timestamp|user|comment|content",
		"titles":        strings.Join(sorted, "|"),
	}

	raw, err := c.Query(ctx, params)
	if err != nil {
		return nil, err
	}

	// formatversion=1 keys pages by their numeric ID as a string.
	var resp struct {
		Query struct {
			Pages map[string]struct {
				PageID    int64  `json:"pageid"`
				Title     string `json:"title"`
				Revisions []struct {
					Slots map[string]struct {
						Content string `json:"*"`
					} `json:"slots"`
				} `json:"revisions"`
			} `json:"pages"`
		} `json:"query"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode revision content: %w", err)
	}

	contents := make(map[int64]string, len(resp.Query.Pages))
	for _, page := range resp.Query.Pages {
		if len(page.Revisions) == 0 {
			continue
		}
		slot, ok := page.Revisions[0].Slots["main"]
		if !ok {
			continue
		}
		contents[page.PageID] = slot.Content
	}
	return contents, nil
}
