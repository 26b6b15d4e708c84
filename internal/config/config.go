package config

import (
	"net/url"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"

	"github.com/wikigraph/wikigraph/internal/mediawiki"
)

// Default configuration values.
const (
	// DefaultEndpoint is the Wikimedia Commons Action API, the wiki the
	// tool was built around. Any MediaWiki api.php endpoint works.
	DefaultEndpoint = "https://commons.wikimedia.org/w/api.php"

	// DefaultTimeout bounds each API request. See mediawiki.DefaultTimeout
	// for the rationale; this is the user-facing knob for it.
	DefaultTimeout = mediawiki.DefaultTimeout

	// DefaultBatchSize is how many member titles are fetched per revision
	// content request. 50 is the API's title cap for unprivileged clients,
	// so this default minimizes request count without losing titles.
	DefaultBatchSize = 50

	// DefaultMemberLimit is the page size for category membership
	// listings. 500 is the API's documented maximum; listings larger than
	// this are reported as truncated because pagination is not
	// implemented.
	DefaultMemberLimit = mediawiki.MaxMemberLimit

	// DefaultWorkers of 1 reproduces the classic sequential depth-first
	// crawl. Raising it explores sibling subtrees concurrently, which is
	// faster but harder on the remote API.
	DefaultWorkers = 1

	// AppName is the application name used for XDG directory paths.
	AppName = "wikigraph"

	// ConfigFileName is the config file searched in the working directory.
	ConfigFileName = ".wikigraph.yaml"
)

// Config holds all options for a crawl. It is populated from defaults,
// then the config file, then CLI flags, and passed by value through the
// application rather than read from global state.
type Config struct {
	// RootCategory is the category title the crawl starts from,
	// e.g. "Category:Certosa (Bologna)".
	RootCategory string

	// Endpoint is the MediaWiki API endpoint URL.
	Endpoint string

	// CacheDir is the response cache directory. Empty selects the
	// historical default ".cache" in the working directory.
	CacheDir string

	// Timeout is the per-request timeout for API calls.
	Timeout time.Duration

	// BatchSize is the number of member titles per content fetch.
	BatchSize int

	// MemberLimit is the page size for membership listings (max 500).
	MemberLimit int

	// Workers is the maximum number of concurrently explored categories.
	Workers int

	// UserAgent overrides the User-Agent header when non-empty.
	UserAgent string

	// Verbose enables debug logging (per-query cache hit/miss lines).
	Verbose bool

	// ConfigFilePath is an explicit config file path. Empty triggers the
	// default search order.
	ConfigFilePath string

	// EdgeListFile, when set, receives the graph as a tab-separated edge
	// list after the crawl.
	EdgeListFile string

	// AdjListFile, when set, receives the graph as a tab-separated
	// adjacency list after the crawl.
	AdjListFile string

	// MarkdownReport switches the crawl summary from plain text to
	// Markdown.
	MarkdownReport bool

	// ReportFile, when set, receives the crawl summary instead of stdout.
	ReportFile string

	// DBDir is the directory of the run database. Crawls are saved there
	// for later comparison when SaveToDB is true.
	DBDir string

	// SaveToDB indicates whether to persist the crawl as a run.
	SaveToDB bool
}

// NewConfig creates a Config with default values.
//
// Design decision: We use a constructor rather than relying on zero
// values because most defaults are non-zero, and the constructor doubles
// as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		Endpoint:    DefaultEndpoint,
		Timeout:     DefaultTimeout,
		BatchSize:   DefaultBatchSize,
		MemberLimit: DefaultMemberLimit,
		Workers:     DefaultWorkers,
		DBDir:       XDGDataDir(),
	}
}

// XDGDataDir returns the XDG data directory for wikigraph, the default
// home of the run database.
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for wikigraph.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks the configuration and returns the first problem found.
// It is called once after flag and file resolution, before any network or
// disk access, so misconfiguration fails fast with a clear message.
func (c *Config) Validate() error {
	if c.RootCategory == "" {
		return ErrNoRoot
	}

	u, err := url.Parse(c.Endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ErrInvalidEndpoint
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	if c.MemberLimit <= 0 || c.MemberLimit > mediawiki.MaxMemberLimit {
		return ErrInvalidMemberLimit
	}

	if c.Workers <= 0 {
		return ErrInvalidWorkers
	}

	return nil
}
