package imports

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// grammarJSExtractor finds module specifiers with a tree-sitter grammar.
// Beyond what the lexical scanner sees it catches multi-line imports,
// side-effect imports, re-exports and dynamic import('m') calls.
type grammarJSExtractor struct {
	grammar *tree_sitter.Language
}

// Extract walks the syntax tree. The grammar recovers from errors, so a
// damaged file still reports whatever well-formed imports it contains.
func (e grammarJSExtractor) Extract(source []byte) (ModuleSet, error) {
	mods := ModuleSet{}
	err := parseTree(e.grammar, source, func(root *tree_sitter.Node) error {
		cursor := root.Walk()
		defer cursor.Close()

		walkNodes(cursor, func(node *tree_sitter.Node) {
			var specifier string
			switch node.Kind() {
			case "import_statement", "export_statement":
				specifier = stringLiteral(node.ChildByFieldName("source"), source)
			case "call_expression":
				specifier = requireArgument(node, source)
			}
			if name, ok := packageName(specifier); ok {
				mods.Add(name)
			}
		})
		return nil
	})
	if err != nil {
		return ModuleSet{}, err
	}
	return mods, nil
}

// requireArgument returns the literal argument of require('m') or
// import('m'), or "" for any other call.
func requireArgument(call *tree_sitter.Node, source []byte) string {
	fn := call.ChildByFieldName("function")
	if fn == nil {
		return ""
	}
	isRequire := fn.Kind() == "identifier" && fn.Utf8Text(source) == "require"
	if !isRequire && fn.Kind() != "import" {
		return ""
	}

	args := call.ChildByFieldName("arguments")
	if args == nil || args.NamedChildCount() == 0 {
		return ""
	}
	return stringLiteral(args.NamedChild(0), source)
}

// stringLiteral returns the unquoted contents of a string node.
func stringLiteral(node *tree_sitter.Node, source []byte) string {
	if node == nil || node.Kind() != "string" {
		return ""
	}
	return strings.Trim(node.Utf8Text(source), "\"'")
}
