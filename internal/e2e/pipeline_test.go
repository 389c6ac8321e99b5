//go:build e2e && cgo

package e2e

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/importgraph/internal/config"
	"github.com/dusk-indust/importgraph/internal/graph"
	"github.com/dusk-indust/importgraph/internal/scan"
)

func fixtureRoot() string {
	return filepath.Join("..", "..", "testdata", "fixtures", "mixed_project")
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// runScan scans root into the Kuzu graph at dbPath with settings taken from
// the root's importgraph.yml. The store is closed before returning.
func runScan(t *testing.T, dbPath, root string, workers int) *scan.Report {
	t.Helper()
	cfg, err := config.Load(root)
	require.NoError(t, err)

	store, err := graph.NewKuzuFileStore(dbPath)
	require.NoError(t, err)
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	rep, err := scan.NewScanner(store, scan.Options{
		Workers: workers,
		Exclude: cfg.Exclude,
		Logger:  quietLogger(),
	}).Run(ctx, root)
	require.NoError(t, err)
	return rep
}

// scanFixture scans the fixture project and returns the reopened store.
func scanFixture(t *testing.T, dbPath string) graph.Store {
	t.Helper()
	runScan(t, dbPath, fixtureRoot(), 4)

	store, err := graph.NewKuzuFileStore(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

// TestPipeline_E2E_Fixture scans the fixture twice into the same on-disk
// graph and checks the second run changes nothing.
func TestPipeline_E2E_Fixture(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "graph.kuzu")
	want := graph.GraphStats{FileCount: 7, ModuleCount: 10, EdgeCount: 10}

	first := runScan(t, dbPath, fixtureRoot(), 4)
	assert.Equal(t, want, first.Stats)
	assert.Equal(t, []string{"app/broken.py"}, first.ParseFailures)

	second := runScan(t, dbPath, fixtureRoot(), 1)
	assert.Equal(t, want, second.Stats)

	store, err := graph.NewKuzuFileStore(dbPath)
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	mods, err := store.ModulesOf(ctx, "app/main.py")
	require.NoError(t, err)
	assert.Equal(t, []string{"app", "os", "requests"}, mods)

	importers, err := store.ImportersOf(ctx, "react")
	require.NoError(t, err)
	assert.Equal(t, []string{"web/index.js"}, importers)
}

// TestPipeline_E2E_TwoFiles is the smallest mixed-language scan.
func TestPipeline_E2E_TwoFiles(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.py"), []byte("import json\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "b.js"),
		[]byte("const x = require('react-dom')\nimport './a'\n"), 0o644))
	dbPath := filepath.Join(t.TempDir(), "graph.kuzu")

	rep := runScan(t, dbPath, root, 2)
	assert.Equal(t, graph.GraphStats{FileCount: 2, ModuleCount: 2, EdgeCount: 2}, rep.Stats)

	store, err := graph.NewKuzuFileStore(dbPath)
	require.NoError(t, err)
	defer store.Close()

	edges, err := store.AllImports(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []graph.ImportEdge{
		{File: "a.py", Module: "json", Kind: graph.EdgeKindImports},
		{File: "b.js", Module: "react-dom", Kind: graph.EdgeKindImports},
	}, edges)
}

// TestPipeline_E2E_GrowingTree rescans after adding a file; existing facts
// stay, new ones are merged, nothing is pruned.
func TestPipeline_E2E_GrowingTree(t *testing.T) {
	root := t.TempDir()
	dbPath := filepath.Join(t.TempDir(), "graph.kuzu")
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.py"), []byte("import json\n"), 0o644))

	runScan(t, dbPath, root, 1)

	require.NoError(t, os.WriteFile(filepath.Join(root, "a.py"), []byte("import yaml\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "c.ts"), []byte("import x from 'zod'\n"), 0o644))
	rep := runScan(t, dbPath, root, 1)

	assert.Equal(t, graph.GraphStats{FileCount: 2, ModuleCount: 3, EdgeCount: 3}, rep.Stats)
}
