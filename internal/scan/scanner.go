package scan

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dusk-indust/importgraph/internal/graph"
	"github.com/dusk-indust/importgraph/internal/imports"
	"github.com/dusk-indust/importgraph/internal/observability"
	"github.com/dusk-indust/importgraph/internal/walk"
)

// Options configure a Scanner.
type Options struct {
	// Workers bounds how many files are processed at once. Values < 1 use
	// runtime.NumCPU(); 1 processes files strictly in walk order.
	Workers int

	// Exclude holds glob patterns passed to the tree walker.
	Exclude []string

	// JSScanner selects lexical or grammar-based JS/TS extraction.
	JSScanner imports.JSScanner

	// Logger receives per-file and summary lines. Defaults to slog.Default().
	Logger *slog.Logger
}

// Report summarizes one run. On failure it still lists what was committed.
type Report struct {
	Root string `json:"root"`

	// Committed lists files whose File node and edges were fully written.
	Committed []string `json:"committed"`

	// ParseFailures lists files recorded with no imports because their
	// source did not parse.
	ParseFailures []string `json:"parseFailures,omitempty"`

	// Skipped lists walk entries that could not be read.
	Skipped []string `json:"skipped,omitempty"`

	// FailedPath is the file whose write aborted the run, if any.
	FailedPath string `json:"failedPath,omitempty"`

	// Stats is the graph size after a successful run.
	Stats graph.GraphStats `json:"stats"`

	Duration time.Duration `json:"duration"`

	mu sync.Mutex
}

// Scanner walks a tree, extracts module references and merges them into a
// graph store.
type Scanner struct {
	store      graph.Store
	builder    *Builder
	dispatcher *imports.Dispatcher
	opts       Options
	log        *slog.Logger
}

// NewScanner returns a Scanner writing to store. The caller owns store and
// closes it after the run.
func NewScanner(store graph.Store, opts Options) *Scanner {
	if opts.Workers < 1 {
		opts.Workers = runtime.NumCPU()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{
		store:      store,
		builder:    NewBuilder(store),
		dispatcher: imports.NewDispatcher(opts.JSScanner),
		opts:       opts,
		log:        logger,
	}
}

// Run scans root. Per-file parse problems and unreadable entries never fail
// the run; a store failure does, and the returned Report then names the
// committed files and the file that triggered the failure.
func (s *Scanner) Run(ctx context.Context, root string) (*Report, error) {
	start := time.Now()
	rep := &Report{Root: root, Committed: []string{}}
	if err := ctx.Err(); err != nil {
		return rep, err
	}

	if err := s.builder.EnsureConstraints(ctx); err != nil {
		return rep, err
	}

	files, err := walk.Files(root, walk.Options{
		Exclude: s.opts.Exclude,
		OnError: func(path string, err error) {
			s.log.Warn("skipping unreadable entry", "path", path, "error", err)
			observability.FilesSkipped.Inc()
			rep.add(&rep.Skipped, path)
		},
	})
	if err != nil {
		return rep, fmt.Errorf("scan: %w", err)
	}

	entries := make(chan walk.Entry)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(entries)
		for e := range files {
			select {
			case entries <- e:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	for w := 0; w < s.opts.Workers; w++ {
		g.Go(func() error {
			sess, err := s.store.Session(gctx)
			if err != nil {
				return fmt.Errorf("scan: open session: %w", err)
			}
			defer sess.Close()

			for e := range entries {
				if gctx.Err() != nil {
					return nil
				}
				if err := s.processFile(gctx, sess, e, rep); err != nil {
					return err
				}
			}
			return nil
		})
	}

	runErr := g.Wait()
	rep.Duration = time.Since(start)
	observability.ScanDuration.Observe(rep.Duration.Seconds())
	sort.Strings(rep.Committed)
	sort.Strings(rep.ParseFailures)
	sort.Strings(rep.Skipped)

	if runErr != nil {
		s.log.Error("scan aborted",
			"root", root,
			"failed", rep.FailedPath,
			"committed", len(rep.Committed),
			"error", runErr,
		)
		for _, p := range rep.Committed {
			s.log.Debug("committed before failure", "path", p)
		}
		return rep, runErr
	}

	stats, err := s.store.Stats(ctx)
	if err != nil {
		return rep, fmt.Errorf("scan: stats: %w", err)
	}
	rep.Stats = *stats
	observability.GraphFiles.Set(float64(stats.FileCount))
	observability.GraphModules.Set(float64(stats.ModuleCount))
	observability.GraphEdges.Set(float64(stats.EdgeCount))

	s.log.Info("scan complete",
		"root", root,
		"files", len(rep.Committed),
		"parse_failures", len(rep.ParseFailures),
		"skipped", len(rep.Skipped),
		"modules", stats.ModuleCount,
		"edges", stats.EdgeCount,
		"duration", rep.Duration.Round(time.Millisecond),
	)
	return rep, nil
}

// processFile reads, extracts and merges a single file.
func (s *Scanner) processFile(ctx context.Context, sess graph.Session, e walk.Entry, rep *Report) error {
	source, err := os.ReadFile(e.AbsPath)
	if err != nil {
		s.log.Warn("skipping unreadable file", "path", e.RelPath, "error", err)
		observability.FilesSkipped.Inc()
		rep.add(&rep.Skipped, e.RelPath)
		return nil
	}

	res := s.dispatcher.Extract(e.RelPath, source)
	observability.FilesScanned.WithLabelValues(string(res.Language)).Inc()
	if res.ParseErr != nil {
		s.log.Info("source did not parse; recording no imports", "path", e.RelPath, "error", res.ParseErr)
		observability.ParseFailures.WithLabelValues(string(res.Language)).Inc()
		rep.add(&rep.ParseFailures, e.RelPath)
	}

	s.log.Info("file processed", "path", e.RelPath, "modules", res.Modules)

	if err := s.builder.Merge(ctx, sess, e.RelPath, res.Modules); err != nil {
		rep.fail(e.RelPath)
		return err
	}
	rep.add(&rep.Committed, e.RelPath)
	return nil
}

func (r *Report) add(list *[]string, path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	*list = append(*list, path)
}

// fail records the first file whose write failed.
func (r *Report) fail(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailedPath == "" {
		r.FailedPath = path
	}
}
