package imports

import "regexp"

// jsImportRE matches `import x from 'm'` and `require('m')` on raw text. It
// is a best-effort scan: dynamic imports, template-literal specifiers and
// side-effect-only imports go unseen.
var jsImportRE = regexp.MustCompile(`(?:import\s.+\sfrom\s|require\()\s*['"](?P<mod>[^'"]+)['"]`)

var jsModGroup = jsImportRE.SubexpIndex("mod")

// lexicalJSExtractor scans JavaScript and TypeScript text with jsImportRE.
type lexicalJSExtractor struct{}

// Extract never fails; text that matches nothing simply has no imports.
func (lexicalJSExtractor) Extract(source []byte) (ModuleSet, error) {
	mods := ModuleSet{}
	for _, m := range jsImportRE.FindAllSubmatch(source, -1) {
		if name, ok := packageName(string(m[jsModGroup])); ok {
			mods.Add(name)
		}
	}
	return mods, nil
}
