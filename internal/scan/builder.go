// Package scan turns a source tree into File→Module facts in a graph store.
package scan

import (
	"context"
	"fmt"
	"sort"

	"github.com/dusk-indust/importgraph/internal/graph"
	"github.com/dusk-indust/importgraph/internal/observability"
)

// WriteError reports a graph write that failed while merging one file.
// Module is empty when the File node itself could not be written.
type WriteError struct {
	Path   string
	Module string
	Err    error
}

func (e *WriteError) Error() string {
	if e.Module == "" {
		return fmt.Sprintf("scan: write file %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("scan: write %s -> %s: %v", e.Path, e.Module, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Builder performs the idempotent upserts for one file at a time.
type Builder struct {
	store graph.Store
}

// NewBuilder returns a Builder writing to store.
func NewBuilder(store graph.Store) *Builder {
	return &Builder{store: store}
}

// EnsureConstraints establishes the File.path and Module.name uniqueness
// constraints. Safe to repeat.
func (b *Builder) EnsureConstraints(ctx context.Context) error {
	if err := b.store.EnsureConstraints(ctx); err != nil {
		return fmt.Errorf("scan: ensure constraints: %w", err)
	}
	return nil
}

// Merge upserts the File node for path and one IMPORTS edge per module, in
// lexicographic module order. Each upsert commits on its own, so a failure
// part-way leaves earlier edges in place and never touches other files.
func (b *Builder) Merge(ctx context.Context, sess graph.Session, path string, modules []string) error {
	if err := sess.UpsertFile(ctx, path); err != nil {
		observability.WriteFailures.Inc()
		return &WriteError{Path: path, Err: err}
	}

	ordered := append([]string(nil), modules...)
	sort.Strings(ordered)

	for _, mod := range ordered {
		if err := sess.UpsertImport(ctx, path, mod); err != nil {
			observability.WriteFailures.Inc()
			return &WriteError{Path: path, Module: mod, Err: err}
		}
		observability.ImportsUpserted.Inc()
	}
	return nil
}
