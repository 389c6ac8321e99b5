package export

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/dusk-indust/importgraph/internal/graph"
)

// GraphExport is the top-level JSON export structure.
type GraphExport struct {
	ExportedAt string           `json:"exportedAt"`
	Stats      graph.GraphStats `json:"stats"`
	Files      []FileExport     `json:"files"`
	Modules    []ModuleExport   `json:"modules"`
}

// FileExport lists one file and the modules it imports.
type FileExport struct {
	Path    string   `json:"path"`
	Imports []string `json:"imports"`
}

// ModuleExport lists one module and the files importing it.
type ModuleExport struct {
	Name       string   `json:"name"`
	ImportedBy []string `json:"importedBy"`
}

// ExportGraph builds a GraphExport from the store. Files and modules are in
// lexicographic order.
func ExportGraph(ctx context.Context, store graph.Store) (*GraphExport, error) {
	stats, err := store.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("get stats: %w", err)
	}
	files, err := store.AllFiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("get files: %w", err)
	}
	edges, err := store.AllImports(ctx)
	if err != nil {
		return nil, fmt.Errorf("get edges: %w", err)
	}

	out := &GraphExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Stats:      *stats,
		Files:      make([]FileExport, 0, len(files)),
		Modules:    []ModuleExport{},
	}

	byFile := make(map[string][]string, len(files))
	byModule := make(map[string][]string)
	var moduleOrder []string
	for _, e := range edges {
		byFile[e.File] = append(byFile[e.File], e.Module)
		if _, ok := byModule[e.Module]; !ok {
			moduleOrder = append(moduleOrder, e.Module)
		}
		byModule[e.Module] = append(byModule[e.Module], e.File)
	}

	for _, f := range files {
		imports := byFile[f]
		if imports == nil {
			imports = []string{}
		}
		out.Files = append(out.Files, FileExport{Path: f, Imports: imports})
	}

	sort.Strings(moduleOrder)
	for _, m := range moduleOrder {
		out.Modules = append(out.Modules, ModuleExport{Name: m, ImportedBy: byModule[m]})
	}
	return out, nil
}

// WriteJSON writes the export as indented JSON.
func WriteJSON(w io.Writer, export *GraphExport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(export)
}
