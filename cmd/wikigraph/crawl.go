package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wikigraph/wikigraph/internal/cache"
	"github.com/wikigraph/wikigraph/internal/config"
	"github.com/wikigraph/wikigraph/internal/crawler"
	"github.com/wikigraph/wikigraph/internal/database"
	"github.com/wikigraph/wikigraph/internal/graph"
	"github.com/wikigraph/wikigraph/internal/log"
	"github.com/wikigraph/wikigraph/internal/mediawiki"
	"github.com/wikigraph/wikigraph/internal/model"
	"github.com/wikigraph/wikigraph/internal/report"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl [category]",
		Short: "Crawl a MediaWiki category tree into a directed graph",
		Long: `Crawl explores a MediaWiki category tree depth-first starting from the
given root category and builds a directed graph of categories and pages.

Every category becomes an edge source; its members (sub-categories and
pages) become edge targets. Page nodes carry the latest revision wikitext
as a node attribute. API responses are cached on disk, so re-running the
same crawl is free and offline.

Examples:
  # Crawl a Wikimedia Commons category
  wikigraph crawl "Category:Certosa (Bologna)"

  # Crawl a different wiki
  wikigraph crawl --endpoint https://en.wikipedia.org/w/api.php "Category:Bologna"

  # Export the graph as edge and adjacency lists
  wikigraph crawl --edgelist edges.tsv --adjlist adj.tsv "Category:Certosa (Bologna)"

  # Markdown summary written to a file
  wikigraph crawl --markdown -o report.md "Category:Certosa (Bologna)"

  # Save the run for later comparison
  wikigraph crawl --save "Category:Certosa (Bologna)"`,
		Args: cobra.ExactArgs(1),
		RunE: runCrawlCmd,
	}

	// API flags
	cmd.Flags().StringP("endpoint", "e", config.DefaultEndpoint,
		"MediaWiki API endpoint URL")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each API request")
	cmd.Flags().StringP("user-agent", "u", "",
		"Override the User-Agent header sent to the API")

	// Crawl behavior flags
	cmd.Flags().IntP("batch-size", "b", config.DefaultBatchSize,
		"Number of member titles per content request (max 50)")
	cmd.Flags().IntP("member-limit", "l", config.DefaultMemberLimit,
		"Page size for category membership listings (max 500)")
	cmd.Flags().IntP("workers", "w", config.DefaultWorkers,
		"Maximum number of concurrently explored categories")

	// Cache flags
	cmd.Flags().String("cache-dir", "",
		"Response cache directory (default: "+cache.DefaultDirName+" in the working directory)")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: "+config.ConfigFileName+" in current directory)")

	// Export flags
	cmd.Flags().String("edgelist", "",
		"Write the graph as a tab-separated edge list to the given file")
	cmd.Flags().String("adjlist", "",
		"Write the graph as a tab-separated adjacency list to the given file")

	// Report flags
	cmd.Flags().BoolP("markdown", "m", false,
		"Output a Markdown crawl summary instead of plain text")
	cmd.Flags().StringP("output", "o", "",
		"Write the crawl summary to the given file path (creates directories if needed)")

	// Run database flags
	cmd.Flags().BoolP("save", "s", false,
		"Save the crawl as a run in the local database for later comparison")
	cmd.Flags().String("db-dir", "",
		"Run database directory (default: XDG data directory)")

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runCrawl(ctx, cfg, logger)
}

// buildConfig creates a Config from cobra command flags. Precedence is
// defaults, then the config file, then explicit flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	if err := config.LoadFile(cfg); err != nil {
		return nil, err
	}

	// Flags override file values only when set on the command line.
	if cmd.Flags().Changed("endpoint") {
		if cfg.Endpoint, err = cmd.Flags().GetString("endpoint"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("timeout") {
		if cfg.Timeout, err = cmd.Flags().GetDuration("timeout"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("user-agent") {
		if cfg.UserAgent, err = cmd.Flags().GetString("user-agent"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("batch-size") {
		if cfg.BatchSize, err = cmd.Flags().GetInt("batch-size"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("member-limit") {
		if cfg.MemberLimit, err = cmd.Flags().GetInt("member-limit"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("workers") {
		if cfg.Workers, err = cmd.Flags().GetInt("workers"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("cache-dir") {
		if cfg.CacheDir, err = cmd.Flags().GetString("cache-dir"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("db-dir") {
		if cfg.DBDir, err = cmd.Flags().GetString("db-dir"); err != nil {
			return nil, err
		}
	}

	cfg.EdgeListFile, err = cmd.Flags().GetString("edgelist")
	if err != nil {
		return nil, err
	}
	cfg.AdjListFile, err = cmd.Flags().GetString("adjlist")
	if err != nil {
		return nil, err
	}
	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}
	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB, err = cmd.Flags().GetBool("save")
	if err != nil {
		return nil, err
	}

	cfg.Verbose = getVerboseFlag(cmd)
	cfg.RootCategory = args[0]

	return cfg, nil
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// runCrawl executes the crawl end to end: cache, client, crawler,
// exports, summary, and optional run persistence.
func runCrawl(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	store, err := cache.NewStore(cfg.CacheDir)
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}

	clientOpts := []mediawiki.Option{
		mediawiki.WithTimeout(cfg.Timeout),
		mediawiki.WithMemberLimit(cfg.MemberLimit),
		mediawiki.WithLogger(logger),
	}
	if cfg.UserAgent != "" {
		clientOpts = append(clientOpts, mediawiki.WithUserAgent(cfg.UserAgent))
	}
	client := mediawiki.NewClient(cfg.Endpoint, store, clientOpts...)

	cr := crawler.New(client,
		crawler.WithBatchSize(cfg.BatchSize),
		crawler.WithWorkers(cfg.Workers),
		crawler.WithCrawlerLogger(logger),
	)

	logger.Info("starting crawl",
		"root", cfg.RootCategory,
		"endpoint", cfg.Endpoint,
		"cacheDir", store.Root(),
		"workers", cfg.Workers,
	)

	fmt.Printf("Crawling %s...\n", cfg.RootCategory)

	g, crawlReport, err := cr.Crawl(ctx, cfg.RootCategory)
	if err != nil {
		return fmt.Errorf("crawl failed: %w", err)
	}

	fmt.Printf("Crawl completed in %s\n\n", crawlReport.Elapsed.Round(time.Millisecond))

	if err := writeExports(cfg, g); err != nil {
		return err
	}

	if err := outputSummary(cfg, crawlReport); err != nil {
		return err
	}

	if cfg.SaveToDB {
		if err := saveRun(ctx, cfg, crawlReport, g, logger); err != nil {
			logger.Error("failed to save run", "error", err)
			return err
		}
	}

	return nil
}

// writeExports writes the requested graph export files.
func writeExports(cfg *config.Config, g *graph.Directed) error {
	if cfg.EdgeListFile != "" {
		if err := writeGraphFile(cfg.EdgeListFile, g, func(out *os.File) report.GraphWriter {
			return report.NewEdgeListWriter(out)
		}); err != nil {
			return fmt.Errorf("failed to write edge list: %w", err)
		}
	}
	if cfg.AdjListFile != "" {
		if err := writeGraphFile(cfg.AdjListFile, g, func(out *os.File) report.GraphWriter {
			return report.NewAdjacencyListWriter(out)
		}); err != nil {
			return fmt.Errorf("failed to write adjacency list: %w", err)
		}
	}
	return nil
}

// writeGraphFile creates path (and parent directories) and writes the
// graph through the writer returned by newWriter.
func writeGraphFile(path string, g *graph.Directed, newWriter func(*os.File) report.GraphWriter) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := newWriter(f).WriteGraph(g); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// outputSummary writes the crawl summary in the requested format to
// stdout or the configured output file.
func outputSummary(cfg *config.Config, crawlReport *model.CrawlReport) error {
	var output *os.File
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	} else {
		output = os.Stdout
	}

	var writer report.SummaryWriter
	if cfg.MarkdownReport {
		writer = report.NewMarkdownWriter(output)
	} else {
		writer = report.NewSimpleWriter(output)
	}
	return writer.WriteSummary(crawlReport)
}

// saveRun persists the crawl as a run in the local database.
func saveRun(ctx context.Context, cfg *config.Config, crawlReport *model.CrawlReport, g *graph.Directed, logger *slog.Logger) error {
	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open run database: %w", err)
	}
	defer db.Close()

	id, err := db.SaveRun(ctx, crawlReport, g)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	logger.Info("run saved", "id", id, "db", db.Path())
	fmt.Printf("Saved as run %d (%s)\n", id, db.Path())
	return nil
}
