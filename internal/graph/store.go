package graph

import (
	"context"
	"errors"
	"io"
)

// ErrStoreUnavailable is returned when the backing graph database cannot be
// opened or connected to.
var ErrStoreUnavailable = errors.New("graph store unavailable")

// Store is the interface for the import graph backend.
// Implementations: KuzuStore (production), MemStore (testing).
// All graph DB access goes through this interface.
type Store interface {
	io.Closer

	// EnsureConstraints establishes uniqueness on File.path and Module.name.
	// It is idempotent and safe to call concurrently.
	EnsureConstraints(ctx context.Context) error

	// Session opens an independent write handle. Concurrent writers must
	// each hold their own session.
	Session(ctx context.Context) (Session, error)

	// Read operations.
	GetFile(ctx context.Context, path string) (*FileNode, error)
	GetModule(ctx context.Context, name string) (*ModuleNode, error)
	ModulesOf(ctx context.Context, path string) ([]string, error)
	ImportersOf(ctx context.Context, module string) ([]string, error)
	AllImports(ctx context.Context) ([]ImportEdge, error)
	AllFiles(ctx context.Context) ([]string, error)

	// Stats.
	Stats(ctx context.Context) (*GraphStats, error)
}

// Session performs find-or-create writes keyed by the unique node identities.
// Every call is its own atomic write; nothing spans calls.
type Session interface {
	io.Closer

	// UpsertFile merges a File node keyed by path. Existing nodes are left
	// untouched.
	UpsertFile(ctx context.Context, path string) error

	// UpsertImport merges the Module node, the File node and the IMPORTS
	// edge between them in a single write.
	UpsertImport(ctx context.Context, path, module string) error
}
