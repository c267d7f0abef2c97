// # internal/engine/parser/types.go
package parser

// Language identifies a tree-sitter grammar.
type Language string

const (
	LangJavaScript Language = "javascript"
	LangTypeScript Language = "typescript"
	LangTSX        Language = "tsx"
)

// LanguageSpec maps a grammar to the file extensions it handles.
type LanguageSpec struct {
	Name       Language
	Extensions []string
}

// DefaultLanguages is the built-in registry. Plain .js files are parsed with
// the javascript grammar, which accepts JSX.
var DefaultLanguages = []LanguageSpec{
	{Name: LangJavaScript, Extensions: []string{".js", ".jsx", ".mjs", ".cjs"}},
	{Name: LangTypeScript, Extensions: []string{".ts", ".mts", ".cts"}},
	{Name: LangTSX, Extensions: []string{".tsx"}},
}

// SyntaxError locates the first ERROR or MISSING node of a tree.
type SyntaxError struct {
	Line   int // 1-based
	Column int // 1-based, bytes
	Kind   string
}
