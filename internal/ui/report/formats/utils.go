package formats

import (
	"path/filepath"
	"strings"

	"arrowstyle/internal/core/errors"
	"arrowstyle/internal/core/ports"
	"arrowstyle/internal/engine/lint"
)

// relativeURI converts an absolute file path to a forward-slash path
// relative to root. Paths outside root, or already relative, are returned
// with forward slashes only.
func relativeURI(root, filePath string) string {
	if root != "" && filepath.IsAbs(filePath) {
		rel, err := filepath.Rel(root, filePath)
		if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			filePath = rel
		}
	}
	return filepath.ToSlash(filePath)
}

type tally struct {
	errors   int
	warnings int
	fixable  int
}

func (t tally) problems() int {
	return t.errors + t.warnings
}

func countDiagnostics(files []ports.FileResult) tally {
	var t tally
	for _, f := range files {
		if f.ParseError != nil || f.Err != nil {
			t.errors++
		}
		for _, d := range f.Diagnostics {
			if d.Severity == lint.SeverityWarning {
				t.warnings++
			} else {
				t.errors++
			}
			if d.Fixable {
				t.fixable++
			}
		}
	}
	return t
}

// failureMessage returns the text shown for a file that could not be linted.
func failureMessage(f ports.FileResult) string {
	if f.ParseError != nil {
		return parseErrorText(f.ParseError)
	}
	if f.Err != nil {
		return f.Err.Error()
	}
	return ""
}

func parseErrorText(err error) string {
	var de *errors.DomainError
	if errors.As(err, &de) {
		return "Parsing error: " + de.Message
	}
	return "Parsing error: " + err.Error()
}
