// Package lint is the host side of a rule: it walks parsed files, hands
// matching nodes to rules, collects their reports and drives fixes to a
// fixed point.
package lint

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Meta describes a rule to the host and to users.
type Meta struct {
	Name        string
	Description string
	Fixable     bool
	// NodeKinds lists the tree-sitter node kinds the rule is called for.
	NodeKinds []string
	Messages  map[string]string
	Defaults  map[string]any
	// Schema is a JSON Schema for the rule's options object.
	Schema string
}

// Rule is called once per matching node, in pre-order.
type Rule interface {
	Meta() Meta
	Check(c *Context, n *sitter.Node)
}
