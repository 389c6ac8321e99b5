package graph

// --- Enums ---

// NodeKind classifies nodes in the import graph.
type NodeKind string

const (
	NodeKindFile   NodeKind = "File"
	NodeKindModule NodeKind = "Module"
)

// EdgeKind classifies relationships between nodes.
type EdgeKind string

const (
	EdgeKindImports EdgeKind = "IMPORTS"
)

// --- Models ---

// FileNode represents a source file, keyed by its repository-relative path.
type FileNode struct {
	Path string `json:"path"`
}

// ModuleNode represents a referenced top-level module, keyed by its
// normalized name.
type ModuleNode struct {
	Name string `json:"name"`
}

// ImportEdge records that File imports Module. The pair is its identity; the
// edge carries no other attributes.
type ImportEdge struct {
	File   string   `json:"file"`
	Module string   `json:"module"`
	Kind   EdgeKind `json:"kind"`
}

// GraphStats summarizes an import graph.
type GraphStats struct {
	FileCount   int `json:"fileCount"`
	ModuleCount int `json:"moduleCount"`
	EdgeCount   int `json:"edgeCount"`
}
