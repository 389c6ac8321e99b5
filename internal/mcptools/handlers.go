package mcptools

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/dusk-indust/importgraph/internal/graph"
	"github.com/dusk-indust/importgraph/internal/imports"
	"github.com/dusk-indust/importgraph/internal/scan"
	"github.com/dusk-indust/importgraph/internal/source"
)

// ImportGraphService holds the graph store used by MCP tool handlers.
type ImportGraphService struct {
	store   graph.Store
	workers int
	logger  *slog.Logger
}

// NewImportGraphService creates an ImportGraphService over store. workers is
// passed to every scan; zero uses one worker per CPU.
func NewImportGraphService(store graph.Store, workers int, logger *slog.Logger) *ImportGraphService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ImportGraphService{store: store, workers: workers, logger: logger}
}

// ScanRepository scans a local directory or a freshly cloned remote and
// merges its imports into the graph.
func (s *ImportGraphService) ScanRepository(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ScanRepositoryInput,
) (*mcp.CallToolResult, ScanRepositoryOutput, error) {
	if (input.RepoPath == "") == (input.RepoURL == "") {
		return nil, ScanRepositoryOutput{}, fmt.Errorf("exactly one of repoPath or repoUrl is required")
	}
	jsScanner, err := imports.ParseJSScanner(input.JSScanner)
	if err != nil {
		return nil, ScanRepositoryOutput{}, err
	}

	var out ScanRepositoryOutput
	root := input.RepoPath
	if input.RepoURL != "" {
		co, err := source.Clone(ctx, input.RepoURL, source.Options{Branch: input.Branch, Depth: 1, Logger: s.logger})
		if err != nil {
			return nil, ScanRepositoryOutput{}, err
		}
		defer co.Remove()
		root = co.Dir
		out.Branch = co.Branch
	} else {
		info, err := os.Stat(root)
		if err != nil {
			return nil, ScanRepositoryOutput{}, fmt.Errorf("cannot access repoPath: %w", err)
		}
		if !info.IsDir() {
			return nil, ScanRepositoryOutput{}, fmt.Errorf("repoPath is not a directory: %s", root)
		}
	}

	scanner := scan.NewScanner(s.store, scan.Options{
		Workers:   s.workers,
		Exclude:   input.Exclude,
		JSScanner: jsScanner,
		Logger:    s.logger,
	})
	rep, err := scanner.Run(ctx, root)
	if err != nil {
		return nil, ScanRepositoryOutput{}, err
	}

	out.Files = len(rep.Committed)
	out.ParseFailures = rep.ParseFailures
	out.Skipped = rep.Skipped
	out.Stats = rep.Stats
	return nil, out, nil
}

// ModulesForFile lists the modules a file imports.
func (s *ImportGraphService) ModulesForFile(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ModulesForFileInput,
) (*mcp.CallToolResult, ModulesForFileOutput, error) {
	if input.Path == "" {
		return nil, ModulesForFileOutput{}, fmt.Errorf("path is required")
	}
	f, err := s.store.GetFile(ctx, input.Path)
	if err != nil {
		return nil, ModulesForFileOutput{}, err
	}
	mods, err := s.store.ModulesOf(ctx, input.Path)
	if err != nil {
		return nil, ModulesForFileOutput{}, err
	}
	if mods == nil {
		mods = []string{}
	}
	return nil, ModulesForFileOutput{Path: input.Path, Known: f != nil, Modules: mods}, nil
}

// FilesImporting lists the files that import a module.
func (s *ImportGraphService) FilesImporting(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input FilesImportingInput,
) (*mcp.CallToolResult, FilesImportingOutput, error) {
	if input.Module == "" {
		return nil, FilesImportingOutput{}, fmt.Errorf("module is required")
	}
	files, err := s.store.ImportersOf(ctx, input.Module)
	if err != nil {
		return nil, FilesImportingOutput{}, err
	}
	if files == nil {
		files = []string{}
	}
	return nil, FilesImportingOutput{Module: input.Module, Files: files}, nil
}

// GraphStats reports node and edge counts.
func (s *ImportGraphService) GraphStats(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ GraphStatsInput,
) (*mcp.CallToolResult, GraphStatsOutput, error) {
	stats, err := s.store.Stats(ctx)
	if err != nil {
		return nil, GraphStatsOutput{}, err
	}
	return nil, GraphStatsOutput{Stats: *stats}, nil
}
