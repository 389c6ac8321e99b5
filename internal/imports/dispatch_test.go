package imports

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingExtractor records how often it was invoked.
type countingExtractor struct {
	calls int
	mods  ModuleSet
	err   error
}

func (c *countingExtractor) Extract(_ []byte) (ModuleSet, error) {
	c.calls++
	return c.mods, c.err
}

func TestLanguageFor(t *testing.T) {
	tests := []struct {
		path string
		want Language
	}{
		{"a.py", LangPython},
		{"src/app/b.js", LangJavaScript},
		{"src/c.ts", LangTypeScript},
		{"README.md", LangUnsupported},
		{"Makefile", LangUnsupported},
		{"view.tsx", LangUnsupported},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LanguageFor(tt.path), tt.path)
	}

	assert.Equal(t, FamilyPythonLike, LangPython.Family())
	assert.Equal(t, FamilyJSLike, LangJavaScript.Family())
	assert.Equal(t, FamilyJSLike, LangTypeScript.Family())
	assert.Equal(t, FamilyUnsupported, LangUnsupported.Family())
	assert.Equal(t, []string{".js", ".py", ".ts"}, SupportedExtensions())
}

func TestDispatcher_UnsupportedSkipsParsers(t *testing.T) {
	spy := &countingExtractor{mods: ModuleSet{"should-not-appear": {}}}
	d := &Dispatcher{extractors: map[Language]Extractor{
		LangPython:     spy,
		LangJavaScript: spy,
		LangTypeScript: spy,
	}}

	res := d.Extract("docs/guide.md", []byte("import os\nrequire('x')"))
	assert.Equal(t, LangUnsupported, res.Language)
	assert.Empty(t, res.Modules)
	assert.NoError(t, res.ParseErr)
	assert.Zero(t, spy.calls)
}

func TestDispatcher_ParseFailureIsContained(t *testing.T) {
	d := NewDispatcher(ScannerLexical)

	res := d.Extract("bad.py", []byte("def nope(:\n"))
	assert.Equal(t, LangPython, res.Language)
	assert.Empty(t, res.Modules)
	require.Error(t, res.ParseErr)
	assert.ErrorIs(t, res.ParseErr, ErrParse)
	assert.Contains(t, res.ParseErr.Error(), "bad.py")
}

func TestDispatcher_RoutesByExtension(t *testing.T) {
	d := NewDispatcher(ScannerLexical)

	py := d.Extract("a.py", []byte("import json\n"))
	assert.Equal(t, []string{"json"}, py.Modules)

	js := d.Extract("b.js", []byte("const x = require('react-dom')\nimport './a'\n"))
	assert.Equal(t, []string{"react-dom"}, js.Modules)

	ts := d.Extract("c.ts", []byte("import { of } from 'rxjs/operators'\n"))
	assert.Equal(t, []string{"rxjs"}, ts.Modules)
}

func TestDispatcher_GrammarMode(t *testing.T) {
	d := NewDispatcher(ScannerGrammar)

	res := d.Extract("b.js", []byte("import 'reflect-metadata'\n"))
	assert.Equal(t, []string{"reflect-metadata"}, res.Modules)

	lexical := NewDispatcher(ScannerLexical).Extract("b.js", []byte("import 'reflect-metadata'\n"))
	assert.Empty(t, lexical.Modules)
}

func TestParseJSScanner(t *testing.T) {
	s, err := ParseJSScanner("")
	require.NoError(t, err)
	assert.Equal(t, ScannerLexical, s)

	s, err = ParseJSScanner(" Grammar ")
	require.NoError(t, err)
	assert.Equal(t, ScannerGrammar, s)

	_, err = ParseJSScanner("ast")
	assert.Error(t, err)
}
