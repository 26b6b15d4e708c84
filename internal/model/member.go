package model

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// CategoryPrefix is the namespace prefix that marks a page title as a
// category. Titles carrying this prefix are recursed into during a crawl;
// all other members are leaf nodes.
const CategoryPrefix = "Category:"

// Member is one entry of a category membership listing.
//
// The PageID correlates a member with its entry in a revision content
// response, which is keyed by page ID rather than by title.
type Member struct {
	// Title is the full page title including any namespace prefix,
	// e.g. "Category:Certosa (Bologna)" or "File:Gate.jpg".
	Title string `json:"title"`

	// PageID is the wiki's numeric identifier for the page.
	PageID int64 `json:"pageid"`
}

// IsCategory reports whether the member is itself a category and should be
// explored recursively.
func (m Member) IsCategory() bool {
	return IsCategory(m.Title)
}

// IsCategory reports whether a title names a category page.
func IsCategory(title string) bool {
	return strings.HasPrefix(title, CategoryPrefix)
}

// NormalizeTitle canonicalizes a page title for use as a graph node name
// and visited-set key.
//
// MediaWiki treats underscores and spaces as equivalent in titles and
// returns NFC-normalized Unicode from the API. Normalizing on our side as
// well means a root category typed with underscores (common when copied
// from a URL) dedupes against the same title returned by the API with
// spaces, so the crawler never explores one category under two names.
func NormalizeTitle(title string) string {
	t := strings.ReplaceAll(title, "_", " ")
	t = strings.Join(strings.Fields(t), " ")
	return norm.NFC.String(t)
}
