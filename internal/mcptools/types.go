package mcptools

import (
	"github.com/dusk-indust/importgraph/internal/graph"
)

// --- MCP Tool Input Types ---
// The MCP Go SDK derives each tool's JSON schema from these struct tags.

// ScanRepositoryInput is the input for the scan_repository MCP tool.
type ScanRepositoryInput struct {
	RepoPath  string   `json:"repoPath,omitempty" jsonschema:"absolute path of a local directory to scan"`
	RepoURL   string   `json:"repoUrl,omitempty" jsonschema:"git URL to clone and scan instead of repoPath"`
	Branch    string   `json:"branch,omitempty" jsonschema:"branch to check out when cloning (default: the remote's default branch)"`
	Exclude   []string `json:"exclude,omitempty" jsonschema:"glob patterns to skip (e.g. node_modules, **/dist)"`
	JSScanner string   `json:"jsScanner,omitempty" jsonschema:"lexical (default) or grammar"`
}

// ScanRepositoryOutput is the result of the scan_repository MCP tool.
type ScanRepositoryOutput struct {
	Files         int              `json:"files"`
	ParseFailures []string         `json:"parseFailures,omitempty"`
	Skipped       []string         `json:"skipped,omitempty"`
	Branch        string           `json:"branch,omitempty"`
	Stats         graph.GraphStats `json:"stats"`
}

// ModulesForFileInput is the input for the modules_for_file MCP tool.
type ModulesForFileInput struct {
	Path string `json:"path" jsonschema:"repository-relative file path, forward slashes"`
}

// ModulesForFileOutput is the result of the modules_for_file MCP tool.
type ModulesForFileOutput struct {
	Path    string   `json:"path"`
	Known   bool     `json:"known"`
	Modules []string `json:"modules"`
}

// FilesImportingInput is the input for the files_importing MCP tool.
type FilesImportingInput struct {
	Module string `json:"module" jsonschema:"top-level module name, e.g. requests or react"`
}

// FilesImportingOutput is the result of the files_importing MCP tool.
type FilesImportingOutput struct {
	Module string   `json:"module"`
	Files  []string `json:"files"`
}

// GraphStatsInput is the input for the graph_stats MCP tool.
type GraphStatsInput struct{}

// GraphStatsOutput is the result of the graph_stats MCP tool.
type GraphStatsOutput struct {
	Stats graph.GraphStats `json:"stats"`
}
