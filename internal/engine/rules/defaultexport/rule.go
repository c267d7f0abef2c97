// Package defaultexport implements the no-export-default-arrow rule, which
// names anonymous default-exported arrow functions after their file.
package defaultexport

import (
	"arrowstyle/internal/engine/fix"
	"arrowstyle/internal/engine/lint"
	"arrowstyle/internal/engine/syntax"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

const (
	RuleName          = "no-export-default-arrow"
	MessageDisallowed = "disallowExportDefaultArrow"
)

type Rule struct{}

func New() Rule { return Rule{} }

func (Rule) Meta() lint.Meta {
	return lint.Meta{
		Name:        RuleName,
		Description: "Disallow anonymous arrow functions as export default declarations",
		Fixable:     true,
		NodeKinds:   []string{"arrow_function"},
		Messages: map[string]string{
			MessageDisallowed: "Disallow export default anonymous arrow function",
		},
		Schema: `{"type": "object", "additionalProperties": true}`,
	}
}

func (Rule) Check(c *lint.Context, fn *sitter.Node) {
	export, value := defaultExportOf(fn)
	if export == nil {
		return
	}
	src := c.Source

	naming := CamelCase
	if returnsJSX(fn) {
		naming = PascalCase
	}
	name := IdentifierFromFilename(src.PhysicalFilename(), naming)

	edits := fix.NewEditSet().
		Replace(int(export.StartByte()), int(value.EndByte()), "const "+name+" = "+src.TextOf(fn))
	if last, ok := src.LastTokenIncludingComments(); ok {
		edits.InsertAfter(last.End, "\n\nexport default "+name)
	}
	c.Report(MessageDisallowed, fn, edits)
}

// defaultExportOf returns the `export default` statement whose value is fn,
// and that value as written (parentheses included).
func defaultExportOf(fn *sitter.Node) (*sitter.Node, *sitter.Node) {
	value := fn
	parent := fn.Parent()
	for parent != nil && parent.Kind() == "parenthesized_expression" {
		value = parent
		parent = parent.Parent()
	}
	if parent == nil || parent.Kind() != "export_statement" {
		return nil, nil
	}
	if !syntax.SameNode(parent.ChildByFieldName("value"), value) || !hasDefaultKeyword(parent) {
		return nil, nil
	}
	return parent, value
}

func hasDefaultKeyword(export *sitter.Node) bool {
	for i := uint(0); i < export.ChildCount(); i++ {
		if child := export.Child(i); child != nil && !child.IsNamed() && child.Kind() == "default" {
			return true
		}
	}
	return false
}

// returnsJSX reports whether any value fn returns is a JSX element. Returns
// inside nested functions do not count.
func returnsJSX(fn *sitter.Node) bool {
	body := fn.ChildByFieldName("body")
	if body == nil {
		return false
	}
	if body.Kind() != "statement_block" {
		return syntax.IsJSX(syntax.Unparen(body))
	}

	found := false
	syntax.Walk(body, func(n *sitter.Node) bool {
		if found {
			return false
		}
		switch n.Kind() {
		case "arrow_function", "function", "function_expression", "function_declaration",
			"generator_function", "generator_function_declaration", "method_definition", "class_body":
			return false
		case "return_statement":
			if args := syntax.NamedChildren(n); len(args) > 0 && syntax.IsJSX(syntax.Unparen(args[0])) {
				found = true
			}
			return false
		}
		return true
	})
	return found
}
