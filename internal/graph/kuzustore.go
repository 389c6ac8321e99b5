//go:build cgo

package graph

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	kuzu "github.com/kuzudb/go-kuzu"
)

// KuzuStore implements the Store interface using KuzuDB as the graph backend.
// It requires CGO because the go-kuzu driver wraps KuzuDB's C library.
type KuzuStore struct {
	db   *kuzu.Database
	conn *kuzu.Connection // read connection

	// KuzuDB runs a single write transaction at a time; sessions take this
	// lock around every write so concurrent upserts queue instead of failing.
	writeMu sync.Mutex

	// connMu guards conn, which is shared by all reads.
	connMu sync.Mutex
}

// Compile-time check that KuzuStore satisfies Store.
var _ Store = (*KuzuStore)(nil)

// NewKuzuStore creates a KuzuStore backed by an in-memory KuzuDB instance.
func NewKuzuStore() (*KuzuStore, error) {
	return openKuzu(":memory:")
}

// NewKuzuFileStore creates a KuzuStore backed by a file-based KuzuDB at the
// given path. KuzuDB creates the database itself when it does not exist, and
// the graph accumulates across runs.
func NewKuzuFileStore(dbPath string) (*KuzuStore, error) {
	// Ensure parent directory exists (KuzuDB creates the leaf itself).
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("kuzu: create parent directory: %w: %w", ErrStoreUnavailable, err)
	}
	return openKuzu(dbPath)
}

func openKuzu(dbPath string) (*KuzuStore, error) {
	cfg := kuzu.DefaultSystemConfig()
	db, err := kuzu.OpenDatabase(dbPath, cfg)
	if err != nil {
		return nil, fmt.Errorf("kuzu: open database %s: %w: %w", dbPath, ErrStoreUnavailable, err)
	}
	conn, err := kuzu.OpenConnection(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("kuzu: open connection: %w: %w", ErrStoreUnavailable, err)
	}
	return &KuzuStore{db: db, conn: conn}, nil
}

// Close releases the KuzuDB connection and database.
func (s *KuzuStore) Close() error {
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
	if s.db != nil {
		s.db.Close()
		s.db = nil
	}
	return nil
}

// ---------- Schema setup ----------

// ddlStatements defines the Cypher DDL executed by EnsureConstraints.
// Primary keys give File.path and Module.name their uniqueness. Node tables
// must precede the relationship table.
var ddlStatements = []string{
	`CREATE NODE TABLE IF NOT EXISTS File(
		path STRING,
		PRIMARY KEY(path)
	)`,
	`CREATE NODE TABLE IF NOT EXISTS Module(
		name STRING,
		PRIMARY KEY(name)
	)`,
	`CREATE REL TABLE IF NOT EXISTS IMPORTS(FROM File TO Module)`,
}

// EnsureConstraints creates the node and relationship tables if they do not
// exist. Repeated calls are no-ops.
func (s *KuzuStore) EnsureConstraints(_ context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.connMu.Lock()
	defer s.connMu.Unlock()

	for _, stmt := range ddlStatements {
		res, err := s.conn.Query(stmt)
		if err != nil {
			return fmt.Errorf("kuzu: ensure constraints: %w", err)
		}
		res.Close()
	}
	return nil
}

// ---------- Write operations ----------

const (
	upsertFileCypher   = `MERGE (f:File {path: $path})`
	upsertImportCypher = `MERGE (m:Module {name: $mod})
		MERGE (f:File {path: $path})
		MERGE (f)-[:IMPORTS]->(m)`
)

// Session opens a dedicated KuzuDB connection for one writer.
func (s *KuzuStore) Session(_ context.Context) (Session, error) {
	conn, err := kuzu.OpenConnection(s.db)
	if err != nil {
		return nil, fmt.Errorf("kuzu: open session: %w: %w", ErrStoreUnavailable, err)
	}
	return &kuzuSession{store: s, conn: conn}, nil
}

// kuzuSession is a Session bound to its own connection.
type kuzuSession struct {
	store *KuzuStore
	conn  *kuzu.Connection
}

// UpsertFile merges a File node keyed by path.
func (ks *kuzuSession) UpsertFile(_ context.Context, path string) error {
	return ks.write(upsertFileCypher, map[string]any{"path": path})
}

// UpsertImport merges Module, File and the IMPORTS edge in one statement,
// which KuzuDB commits as one transaction.
func (ks *kuzuSession) UpsertImport(_ context.Context, path, module string) error {
	return ks.write(upsertImportCypher, map[string]any{
		"path": path,
		"mod":  module,
	})
}

func (ks *kuzuSession) write(cypher string, params map[string]any) error {
	ks.store.writeMu.Lock()
	defer ks.store.writeMu.Unlock()
	return exec(ks.conn, cypher, params)
}

// Close releases the session connection.
func (ks *kuzuSession) Close() error {
	if ks.conn != nil {
		ks.conn.Close()
		ks.conn = nil
	}
	return nil
}

// ---------- Read operations ----------

// GetFile retrieves a single File node by path, or returns nil if not found.
func (s *KuzuStore) GetFile(_ context.Context, path string) (*FileNode, error) {
	rows, err := s.query(
		"MATCH (f:File {path: $path}) RETURN f.path",
		map[string]any{"path": path},
	)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &FileNode{Path: toString(rows[0][0])}, nil
}

// GetModule retrieves a single Module node by name, or returns nil if not found.
func (s *KuzuStore) GetModule(_ context.Context, name string) (*ModuleNode, error) {
	rows, err := s.query(
		"MATCH (m:Module {name: $name}) RETURN m.name",
		map[string]any{"name": name},
	)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &ModuleNode{Name: toString(rows[0][0])}, nil
}

// ModulesOf returns the modules imported by the file at path, sorted by name.
func (s *KuzuStore) ModulesOf(_ context.Context, path string) ([]string, error) {
	rows, err := s.query(
		`MATCH (f:File {path: $path})-[:IMPORTS]->(m:Module)
		 RETURN m.name ORDER BY m.name`,
		map[string]any{"path": path},
	)
	if err != nil {
		return nil, err
	}
	return firstColumn(rows), nil
}

// ImportersOf returns the paths of files importing module, sorted.
func (s *KuzuStore) ImportersOf(_ context.Context, module string) ([]string, error) {
	rows, err := s.query(
		`MATCH (f:File)-[:IMPORTS]->(m:Module {name: $name})
		 RETURN f.path ORDER BY f.path`,
		map[string]any{"name": module},
	)
	if err != nil {
		return nil, err
	}
	return firstColumn(rows), nil
}

// AllImports returns every IMPORTS edge ordered by file then module.
func (s *KuzuStore) AllImports(_ context.Context) ([]ImportEdge, error) {
	rows, err := s.query(
		`MATCH (f:File)-[:IMPORTS]->(m:Module)
		 RETURN f.path, m.name ORDER BY f.path, m.name`,
		nil,
	)
	if err != nil {
		return nil, err
	}
	edges := make([]ImportEdge, 0, len(rows))
	for _, r := range rows {
		edges = append(edges, ImportEdge{
			File:   toString(r[0]),
			Module: toString(r[1]),
			Kind:   EdgeKindImports,
		})
	}
	return edges, nil
}

// AllFiles returns every File path in lexicographic order.
func (s *KuzuStore) AllFiles(_ context.Context) ([]string, error) {
	rows, err := s.query("MATCH (f:File) RETURN f.path ORDER BY f.path", nil)
	if err != nil {
		return nil, err
	}
	return firstColumn(rows), nil
}

// ---------- Stats ----------

// Stats returns node and edge counts.
func (s *KuzuStore) Stats(_ context.Context) (*GraphStats, error) {
	files, err := s.count("MATCH (n:File) RETURN count(n)")
	if err != nil {
		return nil, err
	}
	modules, err := s.count("MATCH (n:Module) RETURN count(n)")
	if err != nil {
		return nil, err
	}
	edges, err := s.count("MATCH ()-[r:IMPORTS]->() RETURN count(r)")
	if err != nil {
		return nil, err
	}
	return &GraphStats{
		FileCount:   files,
		ModuleCount: modules,
		EdgeCount:   edges,
	}, nil
}

// ---------- Internal helpers ----------

// exec runs a parameterized Cypher statement that produces no result rows.
func exec(conn *kuzu.Connection, cypher string, params map[string]any) error {
	stmt, err := conn.Prepare(cypher)
	if err != nil {
		return fmt.Errorf("kuzu: prepare: %w", err)
	}
	defer stmt.Close()

	res, err := conn.Execute(stmt, params)
	if err != nil {
		return fmt.Errorf("kuzu: execute: %w", err)
	}
	res.Close()
	return nil
}

// query runs a parameterized Cypher statement and collects all result rows.
// Each row is a []any slice with values in column order.
func (s *KuzuStore) query(cypher string, params map[string]any) ([][]any, error) {
	s.connMu.Lock()
	defer s.connMu.Unlock()

	var res *kuzu.QueryResult
	var err error

	if len(params) == 0 {
		res, err = s.conn.Query(cypher)
	} else {
		var stmt *kuzu.PreparedStatement
		stmt, err = s.conn.Prepare(cypher)
		if err != nil {
			return nil, fmt.Errorf("kuzu: prepare: %w", err)
		}
		defer stmt.Close()
		res, err = s.conn.Execute(stmt, params)
	}
	if err != nil {
		return nil, fmt.Errorf("kuzu: query: %w", err)
	}
	defer res.Close()

	var rows [][]any
	for res.HasNext() {
		tuple, err := res.Next()
		if err != nil {
			return nil, fmt.Errorf("kuzu: next: %w", err)
		}
		vals, err := tuple.GetAsSlice()
		if err != nil {
			return nil, fmt.Errorf("kuzu: row values: %w", err)
		}
		rows = append(rows, vals)
	}
	return rows, nil
}

// count runs a single-value count query.
func (s *KuzuStore) count(cypher string) (int, error) {
	rows, err := s.query(cypher, nil)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return 0, nil
	}
	return toInt(rows[0][0]), nil
}

func firstColumn(rows [][]any) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, toString(r[0]))
	}
	return out
}

// ---------- Type coercion helpers ----------
// KuzuDB returns typed Go values (int64, string).

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

func toInt(v any) int {
	switch n := v.(type) {
	case int64:
		return int(n)
	case int:
		return n
	case int32:
		return int(n)
	case uint64:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}
