package graph

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openSession opens a session on s and closes it when the test finishes.
func openSession(t *testing.T, s Store) Session {
	t.Helper()
	sess, err := s.Session(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = sess.Close() })
	return sess
}

// runStoreContract exercises the find-or-create guarantees every Store
// implementation must provide. newStore returns a store with constraints
// already established.
func runStoreContract(t *testing.T, newStore func(t *testing.T) Store) {
	t.Run("ensure constraints is repeatable", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		require.NoError(t, s.EnsureConstraints(ctx))
		require.NoError(t, s.EnsureConstraints(ctx))
	})

	t.Run("upsert file is idempotent", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		sess := openSession(t, s)

		require.NoError(t, sess.UpsertFile(ctx, "pkg/a.py"))
		require.NoError(t, sess.UpsertFile(ctx, "pkg/a.py"))

		got, err := s.GetFile(ctx, "pkg/a.py")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "pkg/a.py", got.Path)

		stats, err := s.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, stats.FileCount)
		assert.Equal(t, 0, stats.ModuleCount)
		assert.Equal(t, 0, stats.EdgeCount)
	})

	t.Run("missing nodes return nil", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		f, err := s.GetFile(ctx, "nope.py")
		require.NoError(t, err)
		assert.Nil(t, f)

		m, err := s.GetModule(ctx, "nope")
		require.NoError(t, err)
		assert.Nil(t, m)
	})

	t.Run("upsert import creates file module and edge", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		sess := openSession(t, s)

		// No prior UpsertFile: the import merge must create the file itself.
		require.NoError(t, sess.UpsertImport(ctx, "b.js", "react-dom"))

		f, err := s.GetFile(ctx, "b.js")
		require.NoError(t, err)
		require.NotNil(t, f)

		m, err := s.GetModule(ctx, "react-dom")
		require.NoError(t, err)
		require.NotNil(t, m)

		mods, err := s.ModulesOf(ctx, "b.js")
		require.NoError(t, err)
		assert.Equal(t, []string{"react-dom"}, mods)
	})

	t.Run("running the same batch twice changes nothing", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		sess := openSession(t, s)

		batch := func() {
			require.NoError(t, sess.UpsertFile(ctx, "a.py"))
			for _, mod := range []string{"json", "os"} {
				require.NoError(t, sess.UpsertImport(ctx, "a.py", mod))
			}
		}
		batch()
		first, err := s.Stats(ctx)
		require.NoError(t, err)

		batch()
		second, err := s.Stats(ctx)
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Equal(t, &GraphStats{FileCount: 1, ModuleCount: 2, EdgeCount: 2}, second)
	})

	t.Run("shared module stays unique", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		sess := openSession(t, s)

		require.NoError(t, sess.UpsertImport(ctx, "a.js", "lodash"))
		require.NoError(t, sess.UpsertImport(ctx, "b.js", "lodash"))
		require.NoError(t, sess.UpsertImport(ctx, "a.js", "lodash"))

		stats, err := s.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, stats.FileCount)
		assert.Equal(t, 1, stats.ModuleCount)
		assert.Equal(t, 2, stats.EdgeCount)

		importers, err := s.ImportersOf(ctx, "lodash")
		require.NoError(t, err)
		assert.Equal(t, []string{"a.js", "b.js"}, importers)
	})

	t.Run("concurrent sessions converge", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		const writers = 4
		var wg sync.WaitGroup
		errs := make(chan error, writers)
		for w := 0; w < writers; w++ {
			wg.Add(1)
			go func(w int) {
				defer wg.Done()
				sess, err := s.Session(ctx)
				if err != nil {
					errs <- err
					return
				}
				defer sess.Close()
				path := fmt.Sprintf("f%d.py", w%2)
				for _, mod := range []string{"numpy", "requests"} {
					if err := sess.UpsertImport(ctx, path, mod); err != nil {
						errs <- err
						return
					}
				}
			}(w)
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}

		stats, err := s.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, &GraphStats{FileCount: 2, ModuleCount: 2, EdgeCount: 4}, stats)
	})

	t.Run("all imports are ordered", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		sess := openSession(t, s)

		require.NoError(t, sess.UpsertImport(ctx, "z.py", "a"))
		require.NoError(t, sess.UpsertImport(ctx, "a.py", "z"))
		require.NoError(t, sess.UpsertImport(ctx, "a.py", "b"))

		edges, err := s.AllImports(ctx)
		require.NoError(t, err)
		assert.Equal(t, []ImportEdge{
			{File: "a.py", Module: "b", Kind: EdgeKindImports},
			{File: "a.py", Module: "z", Kind: EdgeKindImports},
			{File: "z.py", Module: "a", Kind: EdgeKindImports},
		}, edges)
	})

	t.Run("all files includes files without imports", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		sess := openSession(t, s)

		require.NoError(t, sess.UpsertImport(ctx, "src/b.js", "react"))
		require.NoError(t, sess.UpsertFile(ctx, "src/a.py"))

		files, err := s.AllFiles(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"src/a.py", "src/b.js"}, files)
	})

	t.Run("file without imports has empty module list", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		sess := openSession(t, s)

		require.NoError(t, sess.UpsertFile(ctx, "empty.ts"))
		mods, err := s.ModulesOf(ctx, "empty.ts")
		require.NoError(t, err)
		assert.Empty(t, mods)
	})
}
