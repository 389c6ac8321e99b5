package imports

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// pythonExtractor collects module names from Python import statements.
type pythonExtractor struct{}

// Extract parses source with the Python grammar. Source containing any
// syntax error yields ErrParse and no modules.
func (e pythonExtractor) Extract(source []byte) (ModuleSet, error) {
	mods := ModuleSet{}
	err := parseTree(pythonGrammar, source, func(root *tree_sitter.Node) error {
		if root.HasError() {
			return ErrParse
		}

		cursor := root.Walk()
		defer cursor.Close()

		walkNodes(cursor, func(node *tree_sitter.Node) {
			switch node.Kind() {
			case "import_statement":
				e.collectImport(node, source, mods)
			case "import_from_statement":
				e.collectFromImport(node, source, mods)
			case "future_import_statement":
				mods.Add("__future__")
			}
		})
		return nil
	})
	if err != nil {
		return ModuleSet{}, err
	}
	return mods, nil
}

// collectImport handles "import a.b, c as d": every named module contributes
// its first dotted segment.
func (e pythonExtractor) collectImport(node *tree_sitter.Node, source []byte, mods ModuleSet) {
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "dotted_name":
			mods.Add(headOfDotted(child, source))
		case "aliased_import":
			if name := child.ChildByFieldName("name"); name != nil {
				mods.Add(headOfDotted(name, source))
			}
		}
	}
}

// collectFromImport handles "from a.b import c" and "from .a import c". A
// bare relative import ("from . import c") names no module and is skipped.
func (e pythonExtractor) collectFromImport(node *tree_sitter.Node, source []byte, mods ModuleSet) {
	module := node.ChildByFieldName("module_name")
	if module == nil {
		return
	}
	switch module.Kind() {
	case "dotted_name":
		mods.Add(headOfDotted(module, source))
	case "relative_import":
		for i := uint(0); i < module.NamedChildCount(); i++ {
			child := module.NamedChild(i)
			if child != nil && child.Kind() == "dotted_name" {
				mods.Add(headOfDotted(child, source))
			}
		}
	}
}

// headOfDotted returns the first identifier of a dotted_name node.
func headOfDotted(node *tree_sitter.Node, source []byte) string {
	if node.Kind() == "dotted_name" && node.NamedChildCount() > 0 {
		if first := node.NamedChild(0); first != nil {
			return first.Utf8Text(source)
		}
	}
	return firstDottedSegment(node.Utf8Text(source))
}
