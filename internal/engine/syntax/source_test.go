package syntax

import (
	"testing"

	"arrowstyle/internal/engine/parser"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sitter "github.com/tree-sitter/go-tree-sitter"
)

func parse(t *testing.T, filename, code string) *Source {
	t.Helper()
	loader, err := parser.NewGrammarLoader()
	require.NoError(t, err)
	tree, err := parser.NewParser(loader).ParseFile(filename, []byte(code))
	require.NoError(t, err)
	t.Cleanup(tree.Close)
	return NewSource(filename, "", tree)
}

func firstArrow(t *testing.T, src *Source) *sitter.Node {
	t.Helper()
	var found *sitter.Node
	Walk(src.Root(), func(n *sitter.Node) bool {
		if found == nil && n.Kind() == "arrow_function" {
			found = n
			return false
		}
		return found == nil
	})
	require.NotNil(t, found, "no arrow_function in source")
	return found
}

func tokenValues(toks []Token) []string {
	out := make([]string, len(toks))
	for i, tok := range toks {
		out[i] = tok.Value
	}
	return out
}

func TestTokenize(t *testing.T) {
	src := parse(t, "a.js", "const foo = () => { return 'foo' } // done\n")

	assert.Equal(t,
		[]string{"const", "foo", "=", "(", ")", "=>", "{", "return", "'foo'", "}"},
		tokenValues(src.Tokens()))
	require.Len(t, src.Comments(), 1)
	assert.Equal(t, "// done", src.Comments()[0].Value)

	kinds := map[string]TokenKind{}
	for _, tok := range src.Tokens() {
		kinds[tok.Value] = tok.Kind
	}
	assert.Equal(t, Keyword, kinds["const"])
	assert.Equal(t, Identifier, kinds["foo"])
	assert.Equal(t, Punctuator, kinds["=>"])
	assert.Equal(t, String, kinds["'foo'"])
}

func TestTokenizeKeepsTemplateWhole(t *testing.T) {
	src := parse(t, "a.js", "const url = (rule) => `docs/${rule}.md`\n")
	last := src.Tokens()[len(src.Tokens())-1]
	assert.Equal(t, Template, last.Kind)
	assert.Equal(t, "`docs/${rule}.md`", last.Value)
}

func TestTokenQueries(t *testing.T) {
	src := parse(t, "a.js", "const fn = () =>\n  /* block comment */\n  1\n")
	arrow := firstArrow(t, src)

	arrowTok, ok := src.ArrowToken(arrow)
	require.True(t, ok)
	assert.Equal(t, "=>", arrowTok.Value)

	first, ok := src.FirstToken(arrow, 0)
	require.True(t, ok)
	assert.Equal(t, "(", first.Value)

	second, ok := src.FirstToken(arrow, 1)
	require.True(t, ok)
	assert.Equal(t, ")", second.Value)

	last, ok := src.LastToken(arrow)
	require.True(t, ok)
	assert.Equal(t, "1", last.Value)

	assert.True(t, src.CommentsExistBetween(arrowTok, last))
	assert.False(t, src.CommentsExistBetween(first, second))

	before, ok := src.TokenBefore(arrowTok.Start)
	require.True(t, ok)
	assert.Equal(t, ")", before.Value)

	after, ok := src.TokenAfter(arrowTok.End)
	require.True(t, ok)
	assert.Equal(t, "1", after.Value)

	assert.True(t, src.IsMultiline(arrow))
}

func TestLinesAndPositions(t *testing.T) {
	src := parse(t, "a.js", "const a = 1\r\n\tconst b = () => 2\n")

	assert.Equal(t, 3, src.LineCount())
	assert.Equal(t, "const a = 1", src.Line(1))
	assert.Equal(t, "\tconst b = () => 2", src.Line(2))
	assert.Equal(t, "", src.Line(3))
	assert.Equal(t, "", src.Line(9))

	arrow := firstArrow(t, src)
	start, end := src.Loc(arrow)
	assert.Equal(t, Position{Line: 2, Column: 11}, start)
	assert.Equal(t, Position{Line: 2, Column: 18}, end)
	assert.Equal(t, "\t", src.Indentation(int(arrow.StartByte())))
}

func TestLastTokenIncludingComments(t *testing.T) {
	src := parse(t, "a.js", "export default () => 1\n\n// line comment\n\n/* block comment */\n")
	last, ok := src.LastTokenIncludingComments()
	require.True(t, ok)
	assert.Equal(t, "/* block comment */", last.Value)

	src = parse(t, "b.js", "// header\nconst a = 1\n")
	last, ok = src.LastTokenIncludingComments()
	require.True(t, ok)
	assert.Equal(t, "1", last.Value)
}

func TestUnparen(t *testing.T) {
	src := parse(t, "a.js", "const obj = () => (({ name: '' }))\n")
	body := firstArrow(t, src).ChildByFieldName("body")
	require.NotNil(t, body)
	assert.Equal(t, "parenthesized_expression", body.Kind())
	assert.Equal(t, "object", Unparen(body).Kind())
	assert.Equal(t, "{ name: '' }", src.TextOf(Unparen(body)))
}

func TestRenderFlat(t *testing.T) {
	src := parse(t, "a.js", "const delay = () =>\n  new Promise((resolve) => {\n    setTimeout(resolve, 1000) // wait\n  });\n")
	root := src.Root().NamedChild(0)

	got := src.RenderFlat(int(root.StartByte()), int(root.EndByte()), func(tok Token) bool {
		return tok.Is(";") && tok.End == int(root.EndByte())
	})
	assert.Equal(t, "const delay = () => new Promise((resolve) => { setTimeout(resolve, 1000) })", got)
}

func TestRenderFlatWithReplacement(t *testing.T) {
	src := parse(t, "a.js", "const foo = () => {\n  return 'foo'\n}\n")
	root := src.Root().NamedChild(0)
	body := firstArrow(t, src).ChildByFieldName("body")

	got := src.RenderFlat(int(root.StartByte()), int(root.EndByte()), nil, Replacement{
		Start: int(body.StartByte()),
		End:   int(body.EndByte()),
		Text:  "'foo'",
	})
	assert.Equal(t, "const foo = () => 'foo'", got)
}

func TestFlattenLiteral(t *testing.T) {
	tests := []struct {
		name string
		code string
		want string
	}{
		{
			name: "array with trailing comma",
			code: "const f = (resolved) => [\n  resolved(enableGitignore),\n]\n",
			want: "[resolved(enableGitignore)]",
		},
		{
			name: "nested object",
			code: "const f = () => ({\n  name: 'test',\n  meta: {\n    id: 1,\n  },\n})\n",
			want: "{name: 'test', meta: {id: 1}}",
		},
		{
			name: "strings keep inner spacing",
			code: "const f = () => ({\n  label: '  {  x  }  ',\n})\n",
			want: "{label: '  {  x  }  '}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := parse(t, "a.js", tt.code)
			body := Unparen(firstArrow(t, src).ChildByFieldName("body"))
			assert.Equal(t, tt.want, src.FlattenLiteral(body))
		})
	}
}

func TestFlattenable(t *testing.T) {
	tests := []struct {
		name string
		code string
		want bool
	}{
		{"plain object", "const f = () => ({\n  a: 1,\n  b: [2],\n})\n", true},
		{"comment inside", "const f = () => ({\n  // note\n  a: 1,\n})\n", false},
		{"multiline template", "const f = () => ({\n  a: `x\ny`,\n})\n", false},
		{"single line template", "const f = () => ({\n  a: `x${y}`,\n})\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := parse(t, "a.js", tt.code)
			body := Unparen(firstArrow(t, src).ChildByFieldName("body"))
			assert.Equal(t, tt.want, src.Flattenable(body))
		})
	}
}

func TestDetectIndentUnit(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "no indentation", text: "const a = 1\n", want: "\t"},
		{name: "tabs", text: "if (a) {\n\treturn 1\n}\n", want: "\t"},
		{name: "two spaces", text: "if (a) {\n  if (b) {\n    c()\n  }\n}\n", want: "  "},
		{name: "four spaces", text: "if (a) {\n    c()\n}\n", want: "    "},
		{name: "jsdoc ignored", text: "/**\n * doc\n */\nif (a) {\n    c()\n}\n", want: "    "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectIndentUnit([]byte(tt.text)))
		})
	}
}
