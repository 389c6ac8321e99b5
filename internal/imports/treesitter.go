package imports

import (
	"fmt"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

var (
	pythonGrammar     = tree_sitter.NewLanguage(tree_sitter_python.Language())
	javascriptGrammar = tree_sitter.NewLanguage(tree_sitter_javascript.Language())
	typescriptGrammar = tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript())
)

// parseTree parses source with grammar and hands the root node to visit.
// A new tree-sitter parser is created per call, so concurrent callers never
// share parser state.
func parseTree(grammar *tree_sitter.Language, source []byte, visit func(root *tree_sitter.Node) error) error {
	parser := tree_sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(grammar); err != nil {
		return fmt.Errorf("imports: set language: %w", err)
	}

	tree := parser.Parse(source, nil)
	if tree == nil {
		return fmt.Errorf("imports: tree-sitter returned nil tree: %w", ErrParse)
	}
	defer tree.Close()

	return visit(tree.RootNode())
}

// walkNodes visits every node under cursor depth-first in source order.
func walkNodes(cursor *tree_sitter.TreeCursor, visit func(node *tree_sitter.Node)) {
	visit(cursor.Node())

	if cursor.GotoFirstChild() {
		walkNodes(cursor, visit)
		for cursor.GotoNextSibling() {
			walkNodes(cursor, visit)
		}
		cursor.GotoParent()
	}
}
