// Package imports extracts the top-level module names a source file
// references. Python is parsed with its tree-sitter grammar; JavaScript and
// TypeScript share a lexical scanner, with an optional grammar-backed mode.
package imports

import (
	"errors"
	"sort"
	"strings"
)

// ErrParse reports source text the grammar could not parse. It never escapes
// the Dispatcher; callers see an empty module set instead.
var ErrParse = errors.New("imports: source does not parse")

// Language identifies the concrete language of a source file.
type Language string

const (
	LangPython      Language = "python"
	LangJavaScript  Language = "javascript"
	LangTypeScript  Language = "typescript"
	LangUnsupported Language = ""
)

// Family groups languages that share an extraction strategy.
type Family int

const (
	FamilyUnsupported Family = iota
	FamilyPythonLike
	FamilyJSLike
)

func (f Family) String() string {
	switch f {
	case FamilyPythonLike:
		return "python-like"
	case FamilyJSLike:
		return "js-like"
	default:
		return "unsupported"
	}
}

// Family returns the extraction family of l.
func (l Language) Family() Family {
	switch l {
	case LangPython:
		return FamilyPythonLike
	case LangJavaScript, LangTypeScript:
		return FamilyJSLike
	default:
		return FamilyUnsupported
	}
}

// Extractor returns the distinct, normalized module names source references.
// Implementations must be safe for concurrent use.
type Extractor interface {
	Extract(source []byte) (ModuleSet, error)
}

// ModuleSet is a set of normalized module names.
type ModuleSet map[string]struct{}

// Add inserts name, ignoring empty names.
func (s ModuleSet) Add(name string) {
	if name == "" {
		return
	}
	s[name] = struct{}{}
}

// Has reports whether name is in the set.
func (s ModuleSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Sorted returns the names in lexicographic order. Graph writes and log
// lines iterate this order so repeated runs issue identical sequences.
func (s ModuleSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for name := range s {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// firstDottedSegment returns "os" for "os.path".
func firstDottedSegment(name string) string {
	head, _, _ := strings.Cut(strings.TrimSpace(name), ".")
	return head
}

// packageName reduces a JS module specifier to its first path segment:
// "lodash/fp" becomes "lodash" and "@scope/pkg" becomes "@scope". Relative
// specifiers and absolute paths report false.
func packageName(specifier string) (string, bool) {
	head, _, _ := strings.Cut(specifier, "/")
	if head == "" || strings.HasPrefix(head, ".") {
		return "", false
	}
	return head, true
}
