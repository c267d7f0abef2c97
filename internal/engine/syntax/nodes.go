package syntax

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// SameNode reports whether a and b refer to the same tree node.
func SameNode(a, b *sitter.Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Id() == b.Id()
}

// NamedChildren returns the named children of n, skipping comments.
func NamedChildren(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	out := make([]*sitter.Node, 0, n.NamedChildCount())
	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		if child == nil || child.Kind() == "comment" || child.Kind() == "html_comment" {
			continue
		}
		out = append(out, child)
	}
	return out
}

// Unparen strips any parenthesized_expression wrappers around n.
func Unparen(n *sitter.Node) *sitter.Node {
	for n != nil && n.Kind() == "parenthesized_expression" {
		children := NamedChildren(n)
		if len(children) != 1 {
			return n
		}
		n = children[0]
	}
	return n
}

// IsJSX reports whether n is a JSX element or fragment.
func IsJSX(n *sitter.Node) bool {
	if n == nil {
		return false
	}
	switch n.Kind() {
	case "jsx_element", "jsx_self_closing_element", "jsx_fragment":
		return true
	}
	return false
}

// ArrowToken returns the `=>` token of an arrow_function node.
func (s *Source) ArrowToken(fn *sitter.Node) (Token, bool) {
	body := fn.ChildByFieldName("body")
	for i := uint(0); i < fn.ChildCount(); i++ {
		child := fn.Child(i)
		if child == nil {
			continue
		}
		if body != nil && child.StartByte() >= body.StartByte() {
			break
		}
		if !child.IsNamed() && child.Kind() == "=>" {
			return Token{
				Kind:  Punctuator,
				Type:  "=>",
				Value: "=>",
				Start: int(child.StartByte()),
				End:   int(child.EndByte()),
			}, true
		}
	}
	return Token{}, false
}

// Walk visits n and its descendants in pre-order. Returning false from fn
// skips the node's children.
func Walk(n *sitter.Node, fn func(*sitter.Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for i := uint(0); i < n.ChildCount(); i++ {
		if child := n.Child(i); child != nil {
			Walk(child, fn)
		}
	}
}
