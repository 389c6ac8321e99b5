package scan

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/importgraph/internal/graph"
)

// writeTree materializes files (relative path → content) under a temp dir.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	return root
}

// bufferLogger returns a logger writing text lines into the returned buffer.
func bufferLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

var errRejected = errors.New("write rejected")

// faultyStore wraps a MemStore and rejects any import of failModule.
type faultyStore struct {
	*graph.MemStore
	failModule string
}

func (f *faultyStore) Session(ctx context.Context) (graph.Session, error) {
	inner, err := f.MemStore.Session(ctx)
	if err != nil {
		return nil, err
	}
	return &faultySession{Session: inner, failModule: f.failModule}, nil
}

type faultySession struct {
	graph.Session
	failModule string
}

func (s *faultySession) UpsertImport(ctx context.Context, path, module string) error {
	if module == s.failModule {
		return errRejected
	}
	return s.Session.UpsertImport(ctx, path, module)
}

// recordingStore wraps a MemStore and logs every write in call order.
type recordingStore struct {
	*graph.MemStore
	mu       sync.Mutex
	ops      []string
	sessions int
}

func (r *recordingStore) Session(ctx context.Context) (graph.Session, error) {
	inner, err := r.MemStore.Session(ctx)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.sessions++
	r.mu.Unlock()
	return &recordingSession{Session: inner, rec: r}, nil
}

func (r *recordingStore) record(op string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, op)
}

type recordingSession struct {
	graph.Session
	rec *recordingStore
}

func (s *recordingSession) UpsertFile(ctx context.Context, path string) error {
	s.rec.record("file " + path)
	return s.Session.UpsertFile(ctx, path)
}

func (s *recordingSession) UpsertImport(ctx context.Context, path, module string) error {
	s.rec.record("import " + path + " " + module)
	return s.Session.UpsertImport(ctx, path, module)
}
