package lint

import (
	"sort"

	"arrowstyle/internal/engine/fix"
)

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Diagnostic is one reported problem. Lines are 1-based, columns 1-based
// byte offsets within the line.
type Diagnostic struct {
	Path      string       `json:"path" msgpack:"path"`
	Rule      string       `json:"rule" msgpack:"rule"`
	MessageID string       `json:"messageId" msgpack:"message_id"`
	Message   string       `json:"message" msgpack:"message"`
	Severity  Severity     `json:"severity" msgpack:"severity"`
	Line      int          `json:"line" msgpack:"line"`
	Column    int          `json:"column" msgpack:"column"`
	EndLine   int          `json:"endLine" msgpack:"end_line"`
	EndColumn int          `json:"endColumn" msgpack:"end_column"`
	Fixable   bool         `json:"fixable" msgpack:"fixable"`
	Fix       *fix.EditSet `json:"-" msgpack:"-"`
}

// SortDiagnostics orders diagnostics by position, then rule.
func SortDiagnostics(diags []Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		a, b := diags[i], diags[j]
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Column != b.Column {
			return a.Column < b.Column
		}
		return a.Rule < b.Rule
	})
}
