// # internal/engine/parser/loader.go
package parser

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

type GrammarLoader struct {
	languages  map[Language]*sitter.Language
	extensions map[string]Language
}

func NewGrammarLoader() (*GrammarLoader, error) {
	return NewGrammarLoaderWithRegistry(DefaultLanguages)
}

func NewGrammarLoaderWithRegistry(registry []LanguageSpec) (*GrammarLoader, error) {
	gl := &GrammarLoader{
		languages:  make(map[Language]*sitter.Language),
		extensions: make(map[string]Language),
	}

	for _, spec := range registry {
		switch spec.Name {
		case LangJavaScript:
			gl.languages[spec.Name] = sitter.NewLanguage(tree_sitter_javascript.Language())
		case LangTypeScript:
			gl.languages[spec.Name] = sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript())
		case LangTSX:
			gl.languages[spec.Name] = sitter.NewLanguage(tree_sitter_typescript.LanguageTSX())
		default:
			return nil, fmt.Errorf("language %q is enabled but runtime grammar loading is not implemented", spec.Name)
		}
		for _, ext := range spec.Extensions {
			ext = strings.ToLower(strings.TrimSpace(ext))
			if ext == "" {
				continue
			}
			if !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			if owner, ok := gl.extensions[ext]; ok && owner != spec.Name {
				return nil, fmt.Errorf("extension %s registered for both %s and %s", ext, owner, spec.Name)
			}
			gl.extensions[ext] = spec.Name
		}
	}

	return gl, nil
}

// Grammar returns the loaded grammar for lang.
func (gl *GrammarLoader) Grammar(lang Language) (*sitter.Language, bool) {
	g, ok := gl.languages[lang]
	return g, ok
}

// DetectLanguage maps a path to its grammar by extension. It returns "" for
// unsupported files.
func (gl *GrammarLoader) DetectLanguage(path string) Language {
	return gl.extensions[strings.ToLower(filepath.Ext(path))]
}

func (gl *GrammarLoader) SupportedExtensions() []string {
	exts := make([]string, 0, len(gl.extensions))
	for ext := range gl.extensions {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
