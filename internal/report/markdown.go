package report

import (
	"io"
	"strconv"
	"time"

	"github.com/nao1215/markdown"

	"github.com/wikigraph/wikigraph/internal/model"
)

// timeRounding is the precision used when printing elapsed times.
const timeRounding = time.Millisecond

// MarkdownWriter outputs the crawl summary as GitHub Flavored Markdown,
// suitable for pasting into issues or publishing next to the exported
// graph files.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to output.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// WriteSummary outputs the crawl summary in Markdown format.
func (w *MarkdownWriter) WriteSummary(r *model.CrawlReport) error {
	md := markdown.NewMarkdown(w.output)

	md.H1("wikigraph Crawl Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Root category", "`" + r.RootCategory + "`"},
			{"Endpoint", r.Endpoint},
			{"Started", r.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Elapsed", r.Elapsed.Round(timeRounding).String()},
			{"Nodes", strconv.Itoa(r.NodeCount)},
			{"Edges", strconv.Itoa(r.EdgeCount)},
			{"Categories explored", strconv.Itoa(r.CategoriesExplored)},
			{"Cache hits", strconv.Itoa(r.CacheHits)},
			{"Cache misses", strconv.Itoa(r.CacheMisses)},
		},
	})
	md.PlainText("")

	w.writeTruncation(md, r)

	return md.Build()
}

// writeTruncation writes the completeness section.
func (w *MarkdownWriter) writeTruncation(md *markdown.Markdown, r *model.CrawlReport) {
	md.H2("Completeness")
	md.PlainText("")

	if !r.Truncated() {
		md.Tip("Every visited category returned its full member list.")
		md.PlainText("")
		return
	}

	md.Warningf(
		"%d categories exceeded the membership page size; their subtrees are incomplete (pagination is not implemented).",
		len(r.TruncatedCategories),
	)
	md.PlainText("")
	md.BulletList(r.TruncatedCategories...)
	md.PlainText("")
}
