package main

import (
	"fmt"
	"os"

	"github.com/dusk-indust/importgraph/internal/graph"
)

// openStore opens the on-disk graph, creating it on first use.
func openStore(path string) (graph.Store, error) {
	store, err := graph.NewKuzuFileStore(path)
	if err != nil {
		return nil, fmt.Errorf("open graph: %w", err)
	}
	return store, nil
}

// openExistingStore opens the graph for reading and fails when none exists.
func openExistingStore(path string) (graph.Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("no graph found at %s\nRun 'importgraph scan' first to build it", path)
	}
	return openStore(path)
}
