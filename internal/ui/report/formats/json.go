package formats

import (
	"encoding/json"
	"io"

	"arrowstyle/internal/core/ports"
	"arrowstyle/internal/engine/lint"
)

type jsonFile struct {
	FilePath          string        `json:"filePath"`
	Messages          []jsonMessage `json:"messages"`
	ErrorCount        int           `json:"errorCount"`
	WarningCount      int           `json:"warningCount"`
	FixableErrorCount int           `json:"fixableErrorCount"`
	Cached            bool          `json:"cached,omitempty"`
	Output            *string       `json:"output,omitempty"`
}

type jsonMessage struct {
	RuleID    *string `json:"ruleId"`
	MessageID string  `json:"messageId,omitempty"`
	Severity  int     `json:"severity"`
	Message   string  `json:"message"`
	Line      int     `json:"line"`
	Column    int     `json:"column"`
	EndLine   int     `json:"endLine,omitempty"`
	EndColumn int     `json:"endColumn,omitempty"`
	Fatal     bool    `json:"fatal,omitempty"`
}

// WriteJSON renders report as a JSON array with one entry per linted file.
// Severity uses the numeric convention 2 = error, 1 = warning. Output is
// present only when fixes changed the file.
func WriteJSON(w io.Writer, root string, report ports.LintReport) error {
	files := make([]jsonFile, 0, len(report.Files))
	for _, f := range report.Files {
		entry := jsonFile{
			FilePath: relativeURI(root, f.Path),
			Messages: make([]jsonMessage, 0, len(f.Diagnostics)),
			Cached:   f.Cached,
		}
		if msg := failureMessage(f); msg != "" {
			entry.Messages = append(entry.Messages, jsonMessage{Severity: 2, Message: msg, Fatal: true})
			entry.ErrorCount++
		}
		for _, d := range f.Diagnostics {
			rule := d.Rule
			m := jsonMessage{
				RuleID:    &rule,
				MessageID: d.MessageID,
				Severity:  2,
				Message:   d.Message,
				Line:      d.Line,
				Column:    d.Column,
				EndLine:   d.EndLine,
				EndColumn: d.EndColumn,
			}
			if d.Severity == lint.SeverityWarning {
				m.Severity = 1
				entry.WarningCount++
			} else {
				entry.ErrorCount++
				if d.Fixable {
					entry.FixableErrorCount++
				}
			}
			entry.Messages = append(entry.Messages, m)
		}
		if f.Changed {
			out := string(f.Output)
			entry.Output = &out
		}
		files = append(files, entry)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(files)
}
