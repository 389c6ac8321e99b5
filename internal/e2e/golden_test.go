//go:build e2e && cgo

package e2e

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/importgraph/internal/export"
)

var update = flag.Bool("update", false, "update golden files")

// goldenDir returns the path to the testdata/golden directory.
func goldenDir() string {
	return filepath.Join("..", "..", "testdata", "golden")
}

const mermaidGolden = "mixed_project.mmd"

// diagramForGolden scans the fixture into a fresh Kuzu graph and renders it.
func diagramForGolden(t *testing.T) string {
	t.Helper()
	store := scanFixture(t, filepath.Join(t.TempDir(), "graph.kuzu"))

	diagram, err := export.GenerateMermaid(context.Background(), store)
	require.NoError(t, err)
	return diagram
}

// TestGolden compares the rendered diagram against the golden file. If the
// golden file does not exist, the test is skipped with a message to run with
// -update.
func TestGolden(t *testing.T) {
	actual := diagramForGolden(t)

	golden, err := os.ReadFile(filepath.Join(goldenDir(), mermaidGolden))
	if os.IsNotExist(err) {
		t.Skipf("golden file %s not found; run with -update to generate", mermaidGolden)
		return
	}
	require.NoError(t, err)

	assert.Equal(t, string(golden), actual, "diagram does not match golden file")
}

// TestUpdateGolden regenerates the golden diagram.
// Run with: go test -tags e2e -run TestUpdateGolden ./internal/e2e/ -update
func TestUpdateGolden(t *testing.T) {
	if !*update {
		t.Skip("skipping golden file update; run with -update flag")
	}

	actual := diagramForGolden(t)
	require.NoError(t, os.MkdirAll(goldenDir(), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(goldenDir(), mermaidGolden), []byte(actual), 0o644))
	t.Logf("updated %s", mermaidGolden)
}
