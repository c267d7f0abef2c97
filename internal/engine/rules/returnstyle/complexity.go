package returnstyle

import (
	"arrowstyle/internal/engine/syntax"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Shape summarizes the members of an object or array literal.
type Shape struct {
	Members  int // properties, or non-spread elements for arrays
	Spreads  int
	Computed int
	Calls    int
}

func shapeOf(e Expr) Shape {
	var s Shape
	for _, member := range syntax.NamedChildren(e.Node) {
		switch e.Kind {
		case KindObject:
			switch member.Kind() {
			case "spread_element":
				s.Spreads++
				continue
			case "pair":
				if key := member.ChildByFieldName("key"); key != nil && key.Kind() == "computed_property_name" {
					s.Computed++
				}
				if value := member.ChildByFieldName("value"); value != nil && isCall(value) {
					s.Calls++
				}
			case "method_definition":
				if name := member.ChildByFieldName("name"); name != nil && name.Kind() == "computed_property_name" {
					s.Computed++
				}
			}
			s.Members++
		case KindArray:
			if member.Kind() == "spread_element" {
				s.Spreads++
				continue
			}
			if isCall(member) {
				s.Calls++
			}
			s.Members++
		}
	}
	return s
}

func isCall(n *sitter.Node) bool {
	return classify(syntax.Unparen(n)) == KindCall
}

// forcesExplicit reports whether the literal must stay in (or move to)
// explicit-return form under the configured style.
func forcesExplicit(opts Options, e Expr) bool {
	if !e.Kind.IsLiteralCollection() {
		return false
	}
	switch opts.ObjectStyle {
	case ObjectStyleAlwaysExplicit:
		return true
	case ObjectStyleComplexExplicit:
		return isComplex(e.Kind, shapeOf(e), opts.MaxObjectProperties)
	}
	return false
}

func isComplex(kind Kind, s Shape, maxProps int) bool {
	switch kind {
	case KindObject:
		return s.Members+s.Spreads > maxProps ||
			(s.Spreads > 0 && s.Computed > 0) ||
			s.Calls >= 2 ||
			(s.Computed > 0 && s.Calls >= 1)
	case KindArray:
		return (s.Spreads > 0 && s.Members > 0) || s.Calls >= 2
	}
	return false
}
