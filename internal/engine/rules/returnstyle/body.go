package returnstyle

import (
	"arrowstyle/internal/engine/syntax"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Kind is the syntactic category of an arrow body or return value.
type Kind uint8

const (
	KindBlock Kind = iota
	KindObject
	KindArray
	KindJSX
	KindCall
	KindIdentifier
	KindLiteral
	KindSequence
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindBlock:
		return "block"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	case KindJSX:
		return "jsx"
	case KindCall:
		return "call"
	case KindIdentifier:
		return "identifier"
	case KindLiteral:
		return "literal"
	case KindSequence:
		return "sequence"
	case KindOther:
		return "other"
	}
	return "unknown"
}

// IsLiteralCollection reports object and array literals, the kinds that may
// be flattened onto one line.
func (k Kind) IsLiteralCollection() bool {
	return k == KindObject || k == KindArray
}

func classify(n *sitter.Node) Kind {
	switch n.Kind() {
	case "statement_block":
		return KindBlock
	case "object":
		return KindObject
	case "array":
		return KindArray
	case "jsx_element", "jsx_self_closing_element", "jsx_fragment":
		return KindJSX
	case "call_expression":
		return KindCall
	case "identifier":
		return KindIdentifier
	case "string", "number", "template_string", "regex", "true", "false", "null", "undefined":
		return KindLiteral
	case "sequence_expression":
		return KindSequence
	}
	return KindOther
}

// Expr is an expression as written (Outer, parentheses included) and
// without its parentheses (Node).
type Expr struct {
	Kind  Kind
	Outer *sitter.Node
	Node  *sitter.Node
}

func newExpr(n *sitter.Node) Expr {
	inner := syntax.Unparen(n)
	return Expr{Kind: classify(inner), Outer: n, Node: inner}
}

// Parenthesized reports whether the expression is wrapped in parentheses.
func (e Expr) Parenthesized() bool {
	return !syntax.SameNode(e.Outer, e.Node)
}

// Body is the classified body of one arrow function. For a block, Return
// and Value are set only when the block is a single `return <value>`.
type Body struct {
	Block  *sitter.Node
	Return *sitter.Node
	Value  Expr
	Expr   Expr
}

func (b Body) IsBlock() bool { return b.Block != nil }

// SingleReturn reports whether the block holds exactly one return statement
// with an argument.
func (b Body) SingleReturn() bool { return b.Return != nil }

func classifyBody(fn *sitter.Node) (Body, bool) {
	body := fn.ChildByFieldName("body")
	if body == nil {
		return Body{}, false
	}
	if body.Kind() != "statement_block" {
		return Body{Expr: newExpr(body)}, true
	}

	out := Body{Block: body}
	stmts := syntax.NamedChildren(body)
	if len(stmts) != 1 || stmts[0].Kind() != "return_statement" {
		return out, true
	}
	args := syntax.NamedChildren(stmts[0])
	if len(args) == 0 {
		return out, true
	}
	out.Return = stmts[0]
	out.Value = newExpr(args[0])
	return out, true
}
