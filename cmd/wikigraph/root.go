package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for wikigraph.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wikigraph",
		Short: "Crawl a MediaWiki category tree into a directed graph",
		Long: `wikigraph recursively explores a MediaWiki category tree (Wikimedia
Commons by default), builds the directed graph of category membership with
revision content attached to each node, and exports it for downstream
analysis and visualization tools.

Every API response is cached on disk under a content-addressed key, so
re-running a crawl touches the network only for queries it has never seen.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewCompareCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
