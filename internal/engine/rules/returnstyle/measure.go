package returnstyle

import (
	"arrowstyle/internal/engine/lint"
	"arrowstyle/internal/engine/syntax"
	"arrowstyle/internal/shared/util"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// checker evaluates arrow functions of one file.
type checker struct {
	c    *lint.Context
	src  *syntax.Source
	opts Options
}

// arrowRoot returns the node measured for line length: the arrow itself when
// it is a call argument, the whole declaration when it initializes a
// variable, and the parent expression otherwise.
func arrowRoot(fn *sitter.Node) *sitter.Node {
	parent := fn.Parent()
	if parent == nil {
		return fn
	}
	switch parent.Kind() {
	case "arguments":
		return fn
	case "variable_declarator":
		if decl := parent.Parent(); decl != nil {
			return decl
		}
	}
	return parent
}

// implicitText renders e on one line as it would read as an arrow's
// expression body.
func (k *checker) implicitText(e Expr) string {
	var text string
	if e.Kind.IsLiteralCollection() && k.src.IsMultiline(e.Node) && k.src.Flattenable(e.Node) {
		text = k.src.FlattenLiteral(e.Node)
	} else {
		text = k.src.RenderFlat(int(e.Node.StartByte()), int(e.Node.EndByte()), nil)
	}
	if k.needsParens(e) {
		text = "(" + text + ")"
	}
	return text
}

// Measurement is the one-line implicit form of an arrow root.
type Measurement struct {
	Prefix int // display width of the root's line up to the root
	Text   string
}

func (m Measurement) Width() int {
	return m.Prefix + util.DisplayWidth(m.Text)
}

// measure renders the arrow root of fn on one line with the body range
// [from, to) replaced by body. The root's terminating semicolon is not
// counted.
func (k *checker) measure(fn *sitter.Node, from, to int, body string) Measurement {
	root := arrowRoot(fn)
	start, end := int(root.StartByte()), int(root.EndByte())
	skip := func(t syntax.Token) bool {
		return t.End == end && t.Is(";")
	}
	text := k.src.RenderFlat(start, end, skip, syntax.Replacement{Start: from, End: to, Text: body})
	return Measurement{
		Prefix: util.DisplayWidth(k.src.Slice(k.src.LineStart(start), start)),
		Text:   text,
	}
}

// exceeds reports whether m is longer than the configured maximum. With the
// formatter enabled the formatter's layout decides; any formatter failure
// falls back to the one-line width.
func (k *checker) exceeds(m Measurement) bool {
	maxLen := k.opts.MaxLen
	if m.Prefix >= maxLen {
		return true
	}
	if k.opts.UseFormatter && k.c.Session != nil {
		if client := k.c.Session.Formatter(); client.Enabled() {
			override := map[string]any{"printWidth": maxLen - m.Prefix}
			res := client.Format(k.c, m.Text, k.src.Filename, override)
			if !res.Fallback {
				return res.IsMultiline || m.Prefix+res.LineLength > maxLen
			}
		}
	}
	return m.Width() > maxLen
}
