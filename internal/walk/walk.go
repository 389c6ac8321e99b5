// Package walk enumerates the source files of a tree that the import
// extractors understand.
package walk

import (
	"fmt"
	"io/fs"
	"iter"
	"log/slog"
	"path/filepath"

	"github.com/gobwas/glob"

	"github.com/dusk-indust/importgraph/internal/imports"
)

// Entry is one candidate source file.
type Entry struct {
	// RelPath is relative to the walk root and always uses forward slashes.
	RelPath string
	// AbsPath can be opened directly.
	AbsPath string
}

// Options tune a walk.
type Options struct {
	// Exclude holds glob patterns ('/' separated). A directory or file is
	// skipped when a pattern matches its relative path or its base name.
	Exclude []string

	// Include decides whether a file is yielded. Defaults to
	// imports.Supported.
	Include func(relPath string) bool

	// OnError receives entries that could not be inspected. They are
	// skipped either way. Defaults to a debug log line.
	OnError func(path string, err error)
}

// alwaysSkipped directories never hold project sources.
var alwaysSkipped = map[string]bool{".git": true}

// Files returns a lazy sequence of the files under root, root included, in
// lexical order. Unreadable entries are reported to Options.OnError and the
// walk continues past them. Symlinked directories are not followed.
func Files(root string, opts Options) (iter.Seq[Entry], error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("walk: resolve root %s: %w", root, err)
	}

	excludes := make([]glob.Glob, 0, len(opts.Exclude))
	for _, p := range opts.Exclude {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("walk: invalid exclude pattern %q: %w", p, err)
		}
		excludes = append(excludes, g)
	}

	include := opts.Include
	if include == nil {
		include = imports.Supported
	}
	onError := opts.OnError
	if onError == nil {
		onError = func(path string, err error) {
			slog.Debug("skipping unreadable entry", "path", path, "error", err)
		}
	}

	excluded := func(rel, base string) bool {
		for _, g := range excludes {
			if g.Match(rel) || g.Match(base) {
				return true
			}
		}
		return false
	}

	return func(yield func(Entry) bool) {
		_ = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				onError(path, err)
				return nil
			}

			rel, relErr := filepath.Rel(absRoot, path)
			if relErr != nil {
				onError(path, relErr)
				return nil
			}
			rel = filepath.ToSlash(rel)

			if d.IsDir() {
				if path == absRoot {
					return nil
				}
				if alwaysSkipped[d.Name()] || excluded(rel, d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}

			if !d.Type().IsRegular() && d.Type()&fs.ModeSymlink == 0 {
				return nil
			}
			if !include(rel) || excluded(rel, d.Name()) {
				return nil
			}

			if !yield(Entry{RelPath: rel, AbsPath: path}) {
				return filepath.SkipAll
			}
			return nil
		})
	}, nil
}
