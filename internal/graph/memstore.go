package graph

import (
	"context"
	"sort"
	"sync"
)

// Compile-time assertion: *MemStore satisfies Store.
var _ Store = (*MemStore)(nil)

// MemStore implements Store using Go maps. Thread-safe via sync.RWMutex.
// Map keys carry the uniqueness constraints, so every upsert is a
// find-or-create under the write lock.
type MemStore struct {
	mu      sync.RWMutex
	files   map[string]struct{}
	modules map[string]struct{}
	edges   map[ImportEdge]struct{}
}

// NewMemStore returns an initialized MemStore ready for use.
func NewMemStore() *MemStore {
	return &MemStore{
		files:   make(map[string]struct{}),
		modules: make(map[string]struct{}),
		edges:   make(map[ImportEdge]struct{}),
	}
}

// EnsureConstraints is a no-op for the in-memory store.
func (m *MemStore) EnsureConstraints(_ context.Context) error {
	return nil
}

// Session returns a write handle over the shared maps.
func (m *MemStore) Session(_ context.Context) (Session, error) {
	return memSession{m: m}, nil
}

type memSession struct {
	m *MemStore
}

func (s memSession) UpsertFile(_ context.Context, path string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	s.m.files[path] = struct{}{}
	return nil
}

func (s memSession) UpsertImport(_ context.Context, path, module string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	s.m.modules[module] = struct{}{}
	s.m.files[path] = struct{}{}
	s.m.edges[ImportEdge{File: path, Module: module, Kind: EdgeKindImports}] = struct{}{}
	return nil
}

func (s memSession) Close() error {
	return nil
}

// GetFile returns the file node for the given path, or nil if not found.
func (m *MemStore) GetFile(_ context.Context, path string) (*FileNode, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.files[path]; !ok {
		return nil, nil
	}
	return &FileNode{Path: path}, nil
}

// GetModule returns the module node for the given name, or nil if not found.
func (m *MemStore) GetModule(_ context.Context, name string) (*ModuleNode, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.modules[name]; !ok {
		return nil, nil
	}
	return &ModuleNode{Name: name}, nil
}

// ModulesOf returns the sorted modules imported by path.
func (m *MemStore) ModulesOf(_ context.Context, path string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []string{}
	for e := range m.edges {
		if e.File == path {
			out = append(out, e.Module)
		}
	}
	sort.Strings(out)
	return out, nil
}

// ImportersOf returns the sorted paths of files importing module.
func (m *MemStore) ImportersOf(_ context.Context, module string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []string{}
	for e := range m.edges {
		if e.Module == module {
			out = append(out, e.File)
		}
	}
	sort.Strings(out)
	return out, nil
}

// AllImports returns every edge ordered by file then module.
func (m *MemStore) AllImports(_ context.Context) ([]ImportEdge, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]ImportEdge, 0, len(m.edges))
	for e := range m.edges {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].File != out[j].File {
			return out[i].File < out[j].File
		}
		return out[i].Module < out[j].Module
	})
	return out, nil
}

// AllFiles returns every File path in lexicographic order.
func (m *MemStore) AllFiles(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.files))
	for p := range m.files {
		out = append(out, p)
	}
	sort.Strings(out)
	return out, nil
}

// Stats returns counts of all node and edge types in the graph.
func (m *MemStore) Stats(_ context.Context) (*GraphStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return &GraphStats{
		FileCount:   len(m.files),
		ModuleCount: len(m.modules),
		EdgeCount:   len(m.edges),
	}, nil
}

// Close is a no-op for the in-memory store.
func (m *MemStore) Close() error {
	return nil
}
