package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/wikigraph/wikigraph/internal/graph"
	"github.com/wikigraph/wikigraph/internal/model"
)

// DBFileName is the SQLite file created inside the database directory.
const DBFileName = "wikigraph.db"

// RunDB provides SQLite-based storage for completed crawl runs.
type RunDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures RunDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging. Recommended; it lets the
	// compare command read while a crawl is being saved.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a RunDB in the given directory.
func Open(dbDir string, opts Options) (*RunDB, error) {
	dbPath := filepath.Join(dbDir, DBFileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite uses mode=rw to prevent creating new files and
	// mode=rwc to allow creation.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite supports one writer; a single connection avoids lock errors.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	rdb := &RunDB{db: db, dbPath: dbPath}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := rdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return rdb, nil
}

// Close closes the database connection.
func (rdb *RunDB) Close() error {
	return rdb.db.Close()
}

// Path returns the location of the database file.
func (rdb *RunDB) Path() string {
	return rdb.dbPath
}

// createTables creates the database schema if it doesn't exist.
func (rdb *RunDB) createTables() error {
	schema := `
	-- One row per completed crawl.
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		root TEXT NOT NULL,
		endpoint TEXT NOT NULL,
		started DATETIME NOT NULL,
		elapsed_ms INTEGER NOT NULL,
		node_count INTEGER NOT NULL,
		edge_count INTEGER NOT NULL,
		categories_explored INTEGER NOT NULL,
		truncated_count INTEGER NOT NULL,
		cache_hits INTEGER NOT NULL,
		cache_misses INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_root ON runs(root);

	-- Node set of a run. is_category marks explorable nodes.
	CREATE TABLE IF NOT EXISTS run_nodes (
		run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		is_category INTEGER NOT NULL,
		PRIMARY KEY (run_id, name)
	);

	-- Edge set of a run.
	CREATE TABLE IF NOT EXISTS run_edges (
		run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		parent TEXT NOT NULL,
		child TEXT NOT NULL,
		PRIMARY KEY (run_id, parent, child)
	);
	`
	_, err := rdb.db.ExecContext(context.Background(), schema)
	return err
}

// RunSummary is the stored metadata of one crawl run.
type RunSummary struct {
	ID                 int64
	Root               string
	Endpoint           string
	Started            time.Time
	Elapsed            time.Duration
	NodeCount          int
	EdgeCount          int
	CategoriesExplored int
	TruncatedCount     int
	CacheHits          int
	CacheMisses        int
}

// SaveRun stores a completed crawl and returns its run ID.
func (rdb *RunDB) SaveRun(ctx context.Context, report *model.CrawlReport, g *graph.Directed) (int64, error) {
	tx, err := rdb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // No-op after commit

	res, err := tx.ExecContext(ctx, `
		INSERT INTO runs (root, endpoint, started, elapsed_ms, node_count, edge_count,
			categories_explored, truncated_count, cache_hits, cache_misses)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		report.RootCategory,
		report.Endpoint,
		report.StartedAt.UTC(),
		report.Elapsed.Milliseconds(),
		report.NodeCount,
		report.EdgeCount,
		report.CategoriesExplored,
		len(report.TruncatedCategories),
		report.CacheHits,
		report.CacheMisses,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read run id: %w", err)
	}

	nodeStmt, err := tx.PrepareContext(ctx,
		"INSERT INTO run_nodes (run_id, name, is_category) VALUES (?, ?, ?)")
	if err != nil {
		return 0, fmt.Errorf("failed to prepare node insert: %w", err)
	}
	defer nodeStmt.Close()

	for _, name := range g.Nodes() {
		isCategory := 0
		if model.IsCategory(name) {
			isCategory = 1
		}
		if _, err := nodeStmt.ExecContext(ctx, runID, name, isCategory); err != nil {
			return 0, fmt.Errorf("failed to insert node %q: %w", name, err)
		}
	}

	edgeStmt, err := tx.PrepareContext(ctx,
		"INSERT INTO run_edges (run_id, parent, child) VALUES (?, ?, ?)")
	if err != nil {
		return 0, fmt.Errorf("failed to prepare edge insert: %w", err)
	}
	defer edgeStmt.Close()

	for _, e := range g.Edges() {
		if _, err := edgeStmt.ExecContext(ctx, runID, e.From, e.To); err != nil {
			return 0, fmt.Errorf("failed to insert edge %s -> %s: %w", e.From, e.To, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}
	return runID, nil
}

// Run returns the stored summary for a run ID.
func (rdb *RunDB) Run(ctx context.Context, id int64) (*RunSummary, error) {
	row := rdb.db.QueryRowContext(ctx, `
		SELECT id, root, endpoint, started, elapsed_ms, node_count, edge_count,
			categories_explored, truncated_count, cache_hits, cache_misses
		FROM runs WHERE id = ?`, id)

	var s RunSummary
	var elapsedMS int64
	err := row.Scan(&s.ID, &s.Root, &s.Endpoint, &s.Started, &elapsedMS,
		&s.NodeCount, &s.EdgeCount, &s.CategoriesExplored, &s.TruncatedCount,
		&s.CacheHits, &s.CacheMisses)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load run %d: %w", id, err)
	}
	s.Elapsed = time.Duration(elapsedMS) * time.Millisecond
	return &s, nil
}

// ListRuns returns all stored runs, most recent first.
func (rdb *RunDB) ListRuns(ctx context.Context) ([]RunSummary, error) {
	rows, err := rdb.db.QueryContext(ctx, `
		SELECT id, root, endpoint, started, elapsed_ms, node_count, edge_count,
			categories_explored, truncated_count, cache_hits, cache_misses
		FROM runs ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var s RunSummary
		var elapsedMS int64
		if err := rows.Scan(&s.ID, &s.Root, &s.Endpoint, &s.Started, &elapsedMS,
			&s.NodeCount, &s.EdgeCount, &s.CategoriesExplored, &s.TruncatedCount,
			&s.CacheHits, &s.CacheMisses); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		s.Elapsed = time.Duration(elapsedMS) * time.Millisecond
		runs = append(runs, s)
	}
	return runs, rows.Err()
}

// RunNodes returns the node names of a run in sorted order.
func (rdb *RunDB) RunNodes(ctx context.Context, id int64) ([]string, error) {
	rows, err := rdb.db.QueryContext(ctx,
		"SELECT name FROM run_nodes WHERE run_id = ? ORDER BY name", id)
	if err != nil {
		return nil, fmt.Errorf("failed to load nodes of run %d: %w", id, err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan node: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// RunEdges returns the edges of a run ordered by parent, then child.
func (rdb *RunDB) RunEdges(ctx context.Context, id int64) ([]graph.Edge, error) {
	rows, err := rdb.db.QueryContext(ctx,
		"SELECT parent, child FROM run_edges WHERE run_id = ? ORDER BY parent, child", id)
	if err != nil {
		return nil, fmt.Errorf("failed to load edges of run %d: %w", id, err)
	}
	defer rows.Close()

	var edges []graph.Edge
	for rows.Next() {
		var e graph.Edge
		if err := rows.Scan(&e.From, &e.To); err != nil {
			return nil, fmt.Errorf("failed to scan edge: %w", err)
		}
		edges = append(edges, e)
	}
	return edges, rows.Err()
}

// RunDiff describes what changed between two stored runs.
type RunDiff struct {
	// AddedNodes and RemovedNodes are nodes present in only one run,
	// relative to the older run.
	AddedNodes   []string
	RemovedNodes []string

	// AddedEdges and RemovedEdges are edges present in only one run.
	AddedEdges   []graph.Edge
	RemovedEdges []graph.Edge
}

// Empty reports whether the two runs have identical node and edge sets.
func (d *RunDiff) Empty() bool {
	return len(d.AddedNodes) == 0 && len(d.RemovedNodes) == 0 &&
		len(d.AddedEdges) == 0 && len(d.RemovedEdges) == 0
}

// CompareRuns diffs run newID against run oldID.
func (rdb *RunDB) CompareRuns(ctx context.Context, oldID, newID int64) (*RunDiff, error) {
	oldNodes, err := rdb.RunNodes(ctx, oldID)
	if err != nil {
		return nil, err
	}
	newNodes, err := rdb.RunNodes(ctx, newID)
	if err != nil {
		return nil, err
	}
	oldEdges, err := rdb.RunEdges(ctx, oldID)
	if err != nil {
		return nil, err
	}
	newEdges, err := rdb.RunEdges(ctx, newID)
	if err != nil {
		return nil, err
	}

	diff := &RunDiff{}

	oldNodeSet := make(map[string]bool, len(oldNodes))
	for _, n := range oldNodes {
		oldNodeSet[n] = true
	}
	newNodeSet := make(map[string]bool, len(newNodes))
	for _, n := range newNodes {
		newNodeSet[n] = true
	}
	for _, n := range newNodes {
		if !oldNodeSet[n] {
			diff.AddedNodes = append(diff.AddedNodes, n)
		}
	}
	for _, n := range oldNodes {
		if !newNodeSet[n] {
			diff.RemovedNodes = append(diff.RemovedNodes, n)
		}
	}

	oldEdgeSet := make(map[graph.Edge]bool, len(oldEdges))
	for _, e := range oldEdges {
		oldEdgeSet[e] = true
	}
	newEdgeSet := make(map[graph.Edge]bool, len(newEdges))
	for _, e := range newEdges {
		newEdgeSet[e] = true
	}
	for _, e := range newEdges {
		if !oldEdgeSet[e] {
			diff.AddedEdges = append(diff.AddedEdges, e)
		}
	}
	for _, e := range oldEdges {
		if !newEdgeSet[e] {
			diff.RemovedEdges = append(diff.RemovedEdges, e)
		}
	}

	return diff, nil
}
