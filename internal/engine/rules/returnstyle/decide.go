package returnstyle

import (
	"arrowstyle/internal/engine/syntax"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

type Action uint8

const (
	NoChange Action = iota
	UseImplicit
	UseExplicit
)

// Decision is the verdict for one arrow function.
type Decision struct {
	Action Action
	// Complex marks explicit form forced by the literal policy.
	Complex bool
	// Flatten marks an explicit rewrite that also puts a multiline literal
	// on one line.
	Flatten bool
}

// MessageID labels the decision. Flattening rewrites share the implicit
// message: they shorten the body rather than enforce an explicit return.
// The complexity message wins over every other reason.
func (d Decision) MessageID() string {
	switch d.Action {
	case UseImplicit:
		return MessageImplicit
	case UseExplicit:
		switch {
		case d.Complex:
			return MessageExplicitComplex
		case d.Flatten:
			return MessageImplicit
		}
		return MessageExplicit
	}
	return ""
}

func isNamedExport(fn *sitter.Node) bool {
	decl := fn.Parent()
	if decl == nil || decl.Kind() != "variable_declarator" {
		return false
	}
	stmt := decl.Parent()
	if stmt == nil {
		return false
	}
	export := stmt.Parent()
	return export != nil && export.Kind() == "export_statement"
}

// decideBlock handles a block body: a single `return <value>` may become an
// expression body.
func (k *checker) decideBlock(fn *sitter.Node, b Body, arrow syntax.Token) Decision {
	if !b.SingleReturn() {
		return Decision{}
	}
	v := b.Value
	if k.src.IsMultiline(v.Node) && (!v.Kind.IsLiteralCollection() || !k.src.Flattenable(v.Node)) {
		return Decision{}
	}
	if k.opts.JSXAlwaysExplicit && v.Kind == KindJSX {
		return Decision{}
	}
	if k.opts.NamedExportsAlwaysExplicit && isNamedExport(fn) {
		return Decision{}
	}
	if forcesExplicit(k.opts, v) {
		return Decision{}
	}
	if k.blockHasLooseComments(b, arrow) {
		return Decision{}
	}

	block := b.Block
	m := k.measure(fn, int(block.StartByte()), int(block.EndByte()), k.implicitText(v))
	if k.exceeds(m) {
		return Decision{}
	}
	return Decision{Action: UseImplicit}
}

// blockHasLooseComments reports comments that the implicit form would drop:
// before the block, around the return statement, or inside the parentheses
// wrapping its value.
func (k *checker) blockHasLooseComments(b Body, arrow syntax.Token) bool {
	open, ok1 := k.src.FirstToken(b.Block, 0)
	closing, ok2 := k.src.LastToken(b.Block)
	first, ok3 := k.src.FirstToken(b.Return, 1)
	last, ok4 := k.src.LastToken(b.Return)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return true
	}
	if k.src.CommentsExistBetween(open, first) || k.src.CommentsExistBetween(last, closing) {
		return true
	}
	if k.src.CommentsExistBetween(arrow, open) {
		return true
	}
	v := b.Value
	return len(k.src.CommentsBetween(int(v.Outer.StartByte()), int(v.Node.StartByte()))) > 0 ||
		len(k.src.CommentsBetween(int(v.Node.EndByte()), int(v.Outer.EndByte()))) > 0
}

// decideExpression handles an expression body, which may need to move into
// a block with an explicit return.
func (k *checker) decideExpression(fn *sitter.Node, b Body, arrow syntax.Token) Decision {
	e := b.Expr
	commented := len(k.src.CommentsBetween(arrow.End, int(e.Node.StartByte()))) > 0
	multiline := k.src.IsMultiline(e.Node)
	flatten := e.Kind.IsLiteralCollection() && multiline && !commented && k.src.Flattenable(e.Node)

	if forcesExplicit(k.opts, e) {
		return Decision{Action: UseExplicit, Complex: true, Flatten: flatten}
	}

	explicit := commented ||
		(multiline && !e.Kind.IsLiteralCollection()) ||
		(k.opts.JSXAlwaysExplicit && e.Kind == KindJSX) ||
		(k.opts.NamedExportsAlwaysExplicit && isNamedExport(fn))
	if !explicit {
		m := k.measure(fn, int(e.Outer.StartByte()), int(e.Outer.EndByte()), k.implicitText(e))
		explicit = k.exceeds(m)
	}
	if !explicit {
		return Decision{}
	}
	return Decision{Action: UseExplicit, Flatten: flatten}
}
