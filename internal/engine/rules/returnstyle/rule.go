// Package returnstyle implements the arrow-return-style rule: arrow
// functions use an implicit return when the body fits on one line and an
// explicit return otherwise.
package returnstyle

import (
	"log/slog"

	"arrowstyle/internal/engine/lint"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

const RuleName = "arrow-return-style"

const (
	MessageImplicit        = "use-implicit-return"
	MessageExplicit        = "use-explicit-return"
	MessageExplicitComplex = "use-explicit-return-complex"
)

var messages = map[string]string{
	MessageImplicit:        "Use implicit return for single-line arrow function bodies.",
	MessageExplicit:        "Use explicit return for multiline arrow function bodies.",
	MessageExplicitComplex: "Use explicit return for complex object or array literals.",
}

type Rule struct{}

func New() Rule { return Rule{} }

func (Rule) Meta() lint.Meta {
	return lint.Meta{
		Name:        RuleName,
		Description: "Enforce consistent arrow function return style based on length, multiline expressions, JSX usage, and export context",
		Fixable:     true,
		NodeKinds:   []string{"arrow_function"},
		Messages:    messages,
		Defaults:    DefaultOptions(),
		Schema:      optionsSchema,
	}
}

func (Rule) Check(c *lint.Context, fn *sitter.Node) {
	body, ok := classifyBody(fn)
	if !ok {
		return
	}
	arrow, ok := c.Source.ArrowToken(fn)
	if !ok {
		pos := c.Source.PositionOf(int(fn.StartByte()))
		slog.Debug("arrow token not found", "path", c.Source.Filename, "line", pos.Line)
		return
	}

	k := &checker{c: c, src: c.Source, opts: readOptions(c.Options)}
	if body.IsBlock() {
		if d := k.decideBlock(fn, body, arrow); d.Action == UseImplicit {
			c.Report(d.MessageID(), fn, k.implicitFix(body))
		}
		return
	}
	if d := k.decideExpression(fn, body, arrow); d.Action == UseExplicit {
		c.Report(d.MessageID(), fn, k.explicitFix(fn, body, arrow, d))
	}
}
