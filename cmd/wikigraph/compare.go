package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wikigraph/wikigraph/internal/config"
	"github.com/wikigraph/wikigraph/internal/database"
)

// NewCompareCmd creates the compare command.
// This command diffs two crawl runs stored in the local run database.
func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [old-run-id] [new-run-id]",
		Short: "Compare two saved crawl runs",
		Long: `Compare shows how a category tree changed between two saved crawls.

It diffs the node and edge sets of two runs from the local run database
and lists categories and pages that were added or removed, relative to
the older run. Runs are recorded by 'wikigraph crawl --save'.

Examples:
  # List saved runs and their IDs
  wikigraph compare --list

  # Diff run 3 against run 7
  wikigraph compare 3 7

  # Use a non-default database directory
  wikigraph compare --db-dir ./data 3 7`,
		Args: cobra.MaximumNArgs(2),
		RunE: runCompareCmd,
	}

	cmd.Flags().BoolP("list", "l", false,
		"List all saved runs in the database")
	cmd.Flags().String("db-dir", "",
		"Run database directory (default: XDG data directory)")

	return cmd
}

// runCompareCmd executes the compare command.
func runCompareCmd(cmd *cobra.Command, args []string) error {
	list, err := cmd.Flags().GetBool("list")
	if err != nil {
		return err
	}

	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}
	if dbDir == "" {
		dbDir = config.XDGDataDir()
	}

	// Parse run IDs before opening the database so argument errors do not
	// require disk access.
	var oldID, newID int64
	if !list {
		if len(args) != 2 {
			return errors.New("two run IDs are required (use --list to see saved runs)")
		}
		oldID, err = parseRunID(args[0])
		if err != nil {
			return err
		}
		newID, err = parseRunID(args[1])
		if err != nil {
			return err
		}
	}

	// The compare command never creates a database; an empty one would
	// only produce confusing "run not found" errors.
	opts := database.DefaultOptions()
	opts.CreateIfNotExists = false

	db, err := database.Open(dbDir, opts)
	if err != nil {
		return fmt.Errorf("failed to open run database: %w", err)
	}
	defer db.Close()

	ctx := context.Background()

	if list {
		return listRuns(ctx, db)
	}
	return compareRuns(ctx, db, oldID, newID)
}

// parseRunID parses a run ID argument.
func parseRunID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid run ID %q (expected a positive integer)", s)
	}
	return id, nil
}

// listRuns prints all saved runs, most recent first.
func listRuns(ctx context.Context, db *database.RunDB) error {
	runs, err := db.ListRuns(ctx)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Println("No saved runs found in the database.")
		fmt.Println("\nUse 'wikigraph crawl --save <category>' to record a run.")
		return nil
	}

	fmt.Printf("Saved runs (%d):\n\n", len(runs))
	fmt.Printf("  %-6s  %-20s  %-8s  %-8s  %s\n", "ID", "Date", "Nodes", "Edges", "Root")
	fmt.Println("  " + strings.Repeat("-", 70))
	for _, run := range runs {
		fmt.Printf("  %-6d  %-20s  %-8d  %-8d  %s\n",
			run.ID,
			run.Started.Format("2006-01-02 15:04:05"),
			run.NodeCount,
			run.EdgeCount,
			run.Root,
		)
	}
	fmt.Println("\nUse 'wikigraph compare <old-id> <new-id>' to diff two runs.")

	return nil
}

// compareRuns diffs two runs and prints the result.
func compareRuns(ctx context.Context, db *database.RunDB, oldID, newID int64) error {
	oldRun, err := db.Run(ctx, oldID)
	if err != nil {
		return err
	}
	newRun, err := db.Run(ctx, newID)
	if err != nil {
		return err
	}

	// Diffing crawls of different roots is almost always a mistyped ID.
	if oldRun.Root != newRun.Root {
		return fmt.Errorf("runs have different roots: run %d crawled %q, run %d crawled %q",
			oldID, oldRun.Root, newID, newRun.Root)
	}

	diff, err := db.CompareRuns(ctx, oldID, newID)
	if err != nil {
		return fmt.Errorf("failed to compare runs: %w", err)
	}

	fmt.Printf("Run Comparison: %s\n", oldRun.Root)
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("\nOld run: %d (%s, %d nodes, %d edges)\n",
		oldRun.ID, oldRun.Started.Format("2006-01-02 15:04:05"), oldRun.NodeCount, oldRun.EdgeCount)
	fmt.Printf("New run: %d (%s, %d nodes, %d edges)\n",
		newRun.ID, newRun.Started.Format("2006-01-02 15:04:05"), newRun.NodeCount, newRun.EdgeCount)

	if diff.Empty() {
		fmt.Println("\nNo differences: the two runs have identical node and edge sets.")
		return nil
	}

	if len(diff.AddedNodes) > 0 {
		fmt.Printf("\nAdded nodes (%d):\n", len(diff.AddedNodes))
		for _, n := range diff.AddedNodes {
			fmt.Printf("  [+] %s\n", n)
		}
	}
	if len(diff.RemovedNodes) > 0 {
		fmt.Printf("\nRemoved nodes (%d):\n", len(diff.RemovedNodes))
		for _, n := range diff.RemovedNodes {
			fmt.Printf("  [-] %s\n", n)
		}
	}
	if len(diff.AddedEdges) > 0 {
		fmt.Printf("\nAdded edges (%d):\n", len(diff.AddedEdges))
		for _, e := range diff.AddedEdges {
			fmt.Printf("  [+] %s -> %s\n", e.From, e.To)
		}
	}
	if len(diff.RemovedEdges) > 0 {
		fmt.Printf("\nRemoved edges (%d):\n", len(diff.RemovedEdges))
		for _, e := range diff.RemovedEdges {
			fmt.Printf("  [-] %s -> %s\n", e.From, e.To)
		}
	}

	return nil
}
