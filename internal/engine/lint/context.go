package lint

import (
	"context"
	"fmt"

	"arrowstyle/internal/engine/fix"
	"arrowstyle/internal/engine/syntax"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Context is what a rule sees while checking one file.
type Context struct {
	context.Context

	Source  *syntax.Source
	Options Options
	Session *Session

	rule  Rule
	meta  Meta
	diags []Diagnostic
}

func newContext(ctx context.Context, rule Rule, src *syntax.Source, opts Options, session *Session) *Context {
	return &Context{
		rule:    rule,
		meta:    rule.Meta(),
		Context: ctx,
		Source:  src,
		Options: opts,
		Session: session,
	}
}

// Report records a problem on node. A nil or empty edit set reports
// without a fix.
func (c *Context) Report(messageID string, node *sitter.Node, edits *fix.EditSet) {
	msg, ok := c.meta.Messages[messageID]
	if !ok {
		msg = fmt.Sprintf("%s (%s)", messageID, c.meta.Name)
	}
	start, end := c.Source.Loc(node)
	d := Diagnostic{
		Path:      c.Source.Filename,
		Rule:      c.meta.Name,
		MessageID: messageID,
		Message:   msg,
		Severity:  SeverityError,
		Line:      start.Line,
		Column:    start.Column + 1,
		EndLine:   end.Line,
		EndColumn: end.Column + 1,
	}
	if edits.Len() > 0 {
		d.Fix = edits
		d.Fixable = true
	}
	c.diags = append(c.diags, d)
}
