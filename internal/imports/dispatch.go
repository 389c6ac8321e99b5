package imports

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// JSScanner selects how JavaScript and TypeScript imports are detected.
type JSScanner string

const (
	// ScannerLexical matches import and require forms with a regular
	// expression over raw text.
	ScannerLexical JSScanner = "lexical"
	// ScannerGrammar walks a tree-sitter syntax tree instead.
	ScannerGrammar JSScanner = "grammar"
)

// ParseJSScanner validates a scanner name. The empty string selects
// ScannerLexical.
func ParseJSScanner(name string) (JSScanner, error) {
	switch JSScanner(strings.ToLower(strings.TrimSpace(name))) {
	case "", ScannerLexical:
		return ScannerLexical, nil
	case ScannerGrammar:
		return ScannerGrammar, nil
	default:
		return "", fmt.Errorf("imports: unknown js scanner %q (want lexical or grammar)", name)
	}
}

// extToLanguage is the closed table of supported extensions.
var extToLanguage = map[string]Language{
	".py": LangPython,
	".js": LangJavaScript,
	".ts": LangTypeScript,
}

// SupportedExtensions returns the extensions the dispatcher understands,
// sorted.
func SupportedExtensions() []string {
	exts := make([]string, 0, len(extToLanguage))
	for ext := range extToLanguage {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// LanguageFor maps a path to its language by extension. Anything outside the
// table is LangUnsupported.
func LanguageFor(path string) Language {
	return extToLanguage[filepath.Ext(path)]
}

// Supported reports whether path has a supported extension.
func Supported(path string) bool {
	return LanguageFor(path) != LangUnsupported
}

// Result is the outcome of extracting one file.
type Result struct {
	Language Language
	// Modules holds the distinct module names in lexicographic order.
	Modules []string
	// ParseErr is set when the source did not parse. It is a notice for
	// logging; Modules is empty in that case.
	ParseErr error
}

// Dispatcher routes files to the extractor for their language.
type Dispatcher struct {
	extractors map[Language]Extractor
}

// NewDispatcher returns a Dispatcher using the given JavaScript scanner.
func NewDispatcher(scanner JSScanner) *Dispatcher {
	extractors := map[Language]Extractor{
		LangPython:     pythonExtractor{},
		LangJavaScript: lexicalJSExtractor{},
		LangTypeScript: lexicalJSExtractor{},
	}
	if scanner == ScannerGrammar {
		extractors[LangJavaScript] = grammarJSExtractor{grammar: javascriptGrammar}
		extractors[LangTypeScript] = grammarJSExtractor{grammar: typescriptGrammar}
	}
	return &Dispatcher{extractors: extractors}
}

// Extract returns the modules path's source references. It never fails:
// unsupported files yield an empty result without their content being
// inspected, and parse failures are reported through Result.ParseErr.
func (d *Dispatcher) Extract(path string, source []byte) Result {
	lang := LanguageFor(path)
	res := Result{Language: lang, Modules: []string{}}

	ext, ok := d.extractors[lang]
	if !ok {
		return res
	}

	mods, err := ext.Extract(source)
	if err != nil {
		res.ParseErr = fmt.Errorf("%s: %w", path, err)
		return res
	}
	res.Modules = mods.Sorted()
	return res
}
