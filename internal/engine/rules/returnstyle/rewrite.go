package returnstyle

import (
	"strings"

	"arrowstyle/internal/engine/fix"
	"arrowstyle/internal/engine/syntax"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// implicitFix replaces the whole block with the returned value.
func (k *checker) implicitFix(b Body) *fix.EditSet {
	v := b.Value
	text := k.src.TextOf(v.Node)
	if v.Kind.IsLiteralCollection() && k.src.IsMultiline(v.Node) && k.src.Flattenable(v.Node) {
		text = k.src.FlattenLiteral(v.Node)
	}
	if k.needsParens(v) {
		text = "(" + text + ")"
	}
	return fix.NewEditSet().Replace(int(b.Block.StartByte()), int(b.Block.EndByte()), text)
}

// needsParens reports whether e must be wrapped to serve as an expression
// body: a leading `{` would open a block, and a sequence would split into
// separate arguments or declarators.
func (k *checker) needsParens(e Expr) bool {
	if e.Kind == KindSequence {
		return true
	}
	tok, ok := k.src.FirstToken(e.Node, 0)
	return ok && tok.Is("{")
}

// explicitFix wraps the expression body in a block returning it.
func (k *checker) explicitFix(fn *sitter.Node, b Body, arrow syntax.Token, d Decision) *fix.EditSet {
	e := b.Expr
	if len(k.src.CommentsBetween(arrow.End, int(e.Node.StartByte()))) > 0 ||
		len(k.src.CommentsBetween(int(e.Node.EndByte()), int(e.Outer.EndByte()))) > 0 {
		return k.relocatingFix(arrow, e)
	}

	base := k.src.Indentation(arrow.Start)
	unit := k.c.Session.IndentUnit(k.src)

	expr := k.src.TextOf(e.Node)
	switch {
	case d.Flatten:
		expr = k.src.FlattenLiteral(e.Node)
	case e.Kind == KindJSX:
		expr = reindentContinuation(expr, base+unit)
	}

	end := int(e.Outer.EndByte())
	if semi, ok := k.statementSemicolon(fn, end); ok {
		end = semi.End
	}
	text := " {\n" + base + unit + "return " + expr + ";\n" + base + "}"
	return fix.NewEditSet().Replace(arrow.End, end, text)
}

// relocatingFix keeps everything between the arrow and the body in place,
// comments included: it opens the block after the arrow, drops the body's
// parentheses and closes the block on a new line.
func (k *checker) relocatingFix(arrow syntax.Token, e Expr) *fix.EditSet {
	set := fix.NewEditSet().InsertAfter(arrow.End, " {")
	for n := e.Outer; n.Kind() == "parenthesized_expression" && !syntax.SameNode(n, e.Node); {
		open, ok1 := k.src.FirstToken(n, 0)
		closing, ok2 := k.src.LastToken(n)
		if ok1 && open.Is("(") {
			set.Remove(open.Start, open.End)
		}
		if ok2 && closing.Is(")") {
			set.Remove(closing.Start, closing.End)
		}
		inner := syntax.NamedChildren(n)
		if len(inner) != 1 {
			break
		}
		n = inner[0]
	}
	set.InsertBefore(int(e.Node.StartByte()), "return ")
	set.InsertAfter(int(e.Node.EndByte()), "\n}")
	return set
}

// statementSemicolon returns the `;` right after offset when it terminates
// the statement holding fn. The separators of a for header are never
// terminators.
func (k *checker) statementSemicolon(fn *sitter.Node, offset int) (syntax.Token, bool) {
	tok, ok := k.src.TokenAfter(offset)
	if !ok || !tok.Is(";") || len(k.src.CommentsBetween(offset, tok.Start)) > 0 {
		return syntax.Token{}, false
	}
	for n := fn.Parent(); n != nil; n = n.Parent() {
		end := int(n.EndByte())
		if end == tok.End {
			if inForHeader(n) {
				return syntax.Token{}, false
			}
			return tok, true
		}
		if end > tok.End {
			break
		}
	}
	return syntax.Token{}, false
}

func inForHeader(n *sitter.Node) bool {
	parent := n.Parent()
	if parent == nil {
		return false
	}
	switch parent.Kind() {
	case "for_statement", "for_in_statement":
		return !syntax.SameNode(parent.ChildByFieldName("body"), n)
	}
	return false
}

// reindentContinuation shifts every line after the first so that the last
// line starts at indent. Lines indented less than the last line are moved
// to indent.
func reindentContinuation(text, indent string) string {
	lines := strings.Split(text, "\n")
	if len(lines) == 1 {
		return text
	}
	last := lines[len(lines)-1]
	closing := last[:len(last)-len(strings.TrimLeft(last, " \t"))]
	for i := 1; i < len(lines); i++ {
		line := lines[i]
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.HasPrefix(line, closing) {
			lines[i] = indent + line[len(closing):]
		} else {
			lines[i] = indent + strings.TrimLeft(line, " \t")
		}
	}
	return strings.Join(lines, "\n")
}
