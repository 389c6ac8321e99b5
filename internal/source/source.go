// Package source acquires a working tree to scan from a git remote.
package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// ErrEmptyURL is returned when no repository URL is given.
var ErrEmptyURL = errors.New("source: repository URL cannot be empty")

// Checkout is a cloned working tree on local disk.
type Checkout struct {
	// Dir is the root of the working tree.
	Dir string
	// Branch is the branch actually checked out.
	Branch string
	// Fallback is true when the requested branch was missing and the
	// remote's default branch was used instead.
	Fallback bool

	tmp string
}

// Remove deletes the clone. Safe to call more than once.
func (c *Checkout) Remove() error {
	if c == nil || c.tmp == "" {
		return nil
	}
	err := os.RemoveAll(c.tmp)
	c.tmp = ""
	return err
}

// Options tune Clone.
type Options struct {
	// Branch to check out. Empty selects the remote's default branch.
	Branch string
	// Dir receives the clone. Empty creates a temp dir that Remove deletes.
	Dir string
	// Depth limits history. Zero clones everything.
	Depth int
	// Logger receives the fallback warning. Defaults to slog.Default().
	Logger *slog.Logger
}

// Clone fetches url and checks out opts.Branch. When the branch does not
// exist on the remote, the default branch is checked out and a warning is
// logged.
func Clone(ctx context.Context, url string, opts Options) (*Checkout, error) {
	if url == "" {
		return nil, ErrEmptyURL
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	co := &Checkout{}
	base := opts.Dir
	if base == "" {
		tmp, err := os.MkdirTemp("", "importgraph-clone-")
		if err != nil {
			return nil, fmt.Errorf("source: temp dir: %w", err)
		}
		co.tmp = tmp
		base = tmp
	}
	dir := filepath.Join(base, "repo")

	repo, err := clone(ctx, dir, url, opts.Branch, opts.Depth)
	if err != nil && opts.Branch != "" && missingBranch(err) {
		logger.Warn("branch not found on remote; using default branch",
			"url", url, "branch", opts.Branch)
		co.Fallback = true
		if rmErr := os.RemoveAll(dir); rmErr != nil {
			_ = co.Remove()
			return nil, fmt.Errorf("source: reset clone dir: %w", rmErr)
		}
		repo, err = clone(ctx, dir, url, "", opts.Depth)
	}
	if err != nil {
		_ = co.Remove()
		return nil, fmt.Errorf("source: clone %s: %w", url, err)
	}

	head, err := repo.Head()
	if err != nil {
		_ = co.Remove()
		return nil, fmt.Errorf("source: resolve HEAD: %w", err)
	}
	co.Dir = dir
	co.Branch = head.Name().Short()
	return co, nil
}

func clone(ctx context.Context, dir, url, branch string, depth int) (*gogit.Repository, error) {
	opts := &gogit.CloneOptions{
		URL:   url,
		Depth: depth,
	}
	if branch != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(branch)
		opts.SingleBranch = true
	}
	return gogit.PlainCloneContext(ctx, dir, false, opts)
}

func missingBranch(err error) bool {
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return true
	}
	var noMatch gogit.NoMatchingRefSpecError
	return errors.As(err, &noMatch)
}
