package database

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/wikigraph/wikigraph/internal/graph"
	"github.com/wikigraph/wikigraph/internal/model"
)

// setupTestDB creates a temporary database for testing.
func setupTestDB(t *testing.T) *RunDB {
	t.Helper()

	db, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// sampleRun returns a report/graph pair for saving.
func sampleRun() (*model.CrawlReport, *graph.Directed) {
	g := graph.New()
	g.AddEdge("Category:A", "Category:B")
	g.AddEdge("Category:A", "File:one.jpg")
	g.AddEdge("Category:B", "File:two.jpg")

	return &model.CrawlReport{
		RootCategory:       "Category:A",
		Endpoint:           "https://commons.wikimedia.org/w/api.php",
		NodeCount:          g.NodeCount(),
		EdgeCount:          g.EdgeCount(),
		CategoriesExplored: 2,
		CacheHits:          1,
		CacheMisses:        3,
		StartedAt:          time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC),
		Elapsed:            2 * time.Second,
	}, g
}

// TestOpen tests database creation.
func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database in new directory", func(t *testing.T) {
		t.Parallel()

		dbDir := filepath.Join(t.TempDir(), "newdir", "subdir")
		db, err := Open(dbDir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		if _, err := os.Stat(filepath.Join(dbDir, DBFileName)); os.IsNotExist(err) {
			t.Error("database file was not created")
		}
	})

	t.Run("CreateIfNotExists=false requires an existing database", func(t *testing.T) {
		t.Parallel()

		_, err := Open(t.TempDir(), Options{CreateIfNotExists: false})
		if err == nil {
			t.Error("expected error for missing database")
		}
	})
}

// TestSaveAndLoadRun tests run persistence round-trips.
func TestSaveAndLoadRun(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	report, g := sampleRun()

	id, err := db.SaveRun(context.Background(), report, g)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	summary, err := db.Run(context.Background(), id)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if summary.Root != "Category:A" {
		t.Errorf("root mismatch: %s", summary.Root)
	}
	if summary.NodeCount != 4 || summary.EdgeCount != 3 {
		t.Errorf("count mismatch: %d nodes, %d edges", summary.NodeCount, summary.EdgeCount)
	}
	if summary.Elapsed != 2*time.Second {
		t.Errorf("elapsed mismatch: %v", summary.Elapsed)
	}

	nodes, err := db.RunNodes(context.Background(), id)
	if err != nil {
		t.Fatalf("loading nodes failed: %v", err)
	}
	wantNodes := []string{"Category:A", "Category:B", "File:one.jpg", "File:two.jpg"}
	if !reflect.DeepEqual(nodes, wantNodes) {
		t.Errorf("nodes mismatch: %v", nodes)
	}

	edges, err := db.RunEdges(context.Background(), id)
	if err != nil {
		t.Fatalf("loading edges failed: %v", err)
	}
	if !reflect.DeepEqual(edges, g.Edges()) {
		t.Errorf("edges mismatch: %v", edges)
	}
}

// TestListRuns tests run listing order.
func TestListRuns(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	report, g := sampleRun()

	first, err := db.SaveRun(context.Background(), report, g)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	second, err := db.SaveRun(context.Background(), report, g)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runs, err := db.ListRuns(context.Background())
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != second || runs[1].ID != first {
		t.Errorf("runs not listed most recent first: %d, %d", runs[0].ID, runs[1].ID)
	}
}

// TestCompareRuns tests diffing two stored runs.
func TestCompareRuns(t *testing.T) {
	t.Parallel()

	t.Run("identical runs diff empty", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		report, g := sampleRun()

		a, _ := db.SaveRun(context.Background(), report, g)
		b, _ := db.SaveRun(context.Background(), report, g)

		diff, err := db.CompareRuns(context.Background(), a, b)
		if err != nil {
			t.Fatalf("compare failed: %v", err)
		}
		if !diff.Empty() {
			t.Errorf("expected empty diff, got %+v", diff)
		}
	})

	t.Run("reports additions and removals", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		report, g := sampleRun()
		a, err := db.SaveRun(context.Background(), report, g)
		if err != nil {
			t.Fatalf("save failed: %v", err)
		}

		g2 := graph.New()
		g2.AddEdge("Category:A", "Category:B")
		g2.AddEdge("Category:B", "File:two.jpg")
		g2.AddEdge("Category:B", "File:new.jpg") // added
		// File:one.jpg and its edge removed.
		b, err := db.SaveRun(context.Background(), report, g2)
		if err != nil {
			t.Fatalf("save failed: %v", err)
		}

		diff, err := db.CompareRuns(context.Background(), a, b)
		if err != nil {
			t.Fatalf("compare failed: %v", err)
		}

		if !reflect.DeepEqual(diff.AddedNodes, []string{"File:new.jpg"}) {
			t.Errorf("added nodes mismatch: %v", diff.AddedNodes)
		}
		if !reflect.DeepEqual(diff.RemovedNodes, []string{"File:one.jpg"}) {
			t.Errorf("removed nodes mismatch: %v", diff.RemovedNodes)
		}
		if !reflect.DeepEqual(diff.AddedEdges, []graph.Edge{{From: "Category:B", To: "File:new.jpg"}}) {
			t.Errorf("added edges mismatch: %v", diff.AddedEdges)
		}
		if !reflect.DeepEqual(diff.RemovedEdges, []graph.Edge{{From: "Category:A", To: "File:one.jpg"}}) {
			t.Errorf("removed edges mismatch: %v", diff.RemovedEdges)
		}
	})

	t.Run("unknown run id fails", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		if _, err := db.Run(context.Background(), 42); err == nil {
			t.Error("expected error for unknown run")
		}
	})
}
