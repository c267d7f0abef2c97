// # internal/engine/parser/parser_test.go
package parser

import (
	"testing"

	"arrowstyle/internal/core/errors"
)

func newTestParser(t *testing.T) *Parser {
	t.Helper()
	loader, err := NewGrammarLoader()
	if err != nil {
		t.Fatal(err)
	}
	return NewParser(loader)
}

func TestDetectLanguage(t *testing.T) {
	loader, err := NewGrammarLoader()
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		path string
		want Language
	}{
		{path: "src/index.js", want: LangJavaScript},
		{path: "src/App.JSX", want: LangJavaScript},
		{path: "rollup.config.mjs", want: LangJavaScript},
		{path: "server.cjs", want: LangJavaScript},
		{path: "src/rule.ts", want: LangTypeScript},
		{path: "vite.config.mts", want: LangTypeScript},
		{path: "src/layout.tsx", want: LangTSX},
		{path: "README.md", want: ""},
		{path: "Makefile", want: ""},
	}

	for _, tt := range tests {
		if got := loader.DetectLanguage(tt.path); got != tt.want {
			t.Errorf("DetectLanguage(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestRegistryRejectsDuplicateExtension(t *testing.T) {
	_, err := NewGrammarLoaderWithRegistry([]LanguageSpec{
		{Name: LangJavaScript, Extensions: []string{".js"}},
		{Name: LangTypeScript, Extensions: []string{"js"}},
	})
	if err == nil {
		t.Fatal("expected duplicate extension to be rejected")
	}
}

func TestParseFile(t *testing.T) {
	p := newTestParser(t)

	tree, err := p.ParseFile("use-mouse.tsx", []byte("export default () => <div />\n"))
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	defer tree.Close()

	if tree.Language != LangTSX {
		t.Errorf("expected tsx, got %s", tree.Language)
	}
	if tree.Root().Kind() != "program" {
		t.Errorf("expected program root, got %s", tree.Root().Kind())
	}
}

func TestParseFileTypeScriptGenerics(t *testing.T) {
	p := newTestParser(t)

	tree, err := p.ParseFile("config.ts", []byte("export const defineConfig = <T extends Linter.Config>(config: T) => config\n"))
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	tree.Close()
}

func TestParseFileSyntaxError(t *testing.T) {
	p := newTestParser(t)

	_, err := p.ParseFile("broken.js", []byte("const a = () => {\n  return (\n}\n"))
	if err == nil {
		t.Fatal("expected syntax error")
	}
	if !errors.IsCode(err, errors.CodeParse) {
		t.Fatalf("expected PARSE_ERROR, got %v", err)
	}
}

func TestParseFileUnsupported(t *testing.T) {
	p := newTestParser(t)

	_, err := p.ParseFile("style.css", []byte("a {}"))
	if !errors.IsCode(err, errors.CodeNotSupported) {
		t.Fatalf("expected NOT_SUPPORTED, got %v", err)
	}
}

func TestFirstSyntaxErrorCleanTree(t *testing.T) {
	p := newTestParser(t)

	tree, err := p.Parse(LangJavaScript, []byte("const t = () => Date.now()\n"))
	if err != nil {
		t.Fatal(err)
	}
	defer tree.Close()

	if se := FirstSyntaxError(tree.Root()); se != nil {
		t.Fatalf("expected clean tree, got %+v", se)
	}
}
