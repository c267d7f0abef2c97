// Package formats renders lint reports for terminals and tools.
package formats

import (
	"io"
	"strings"

	"arrowstyle/internal/core/errors"
	"arrowstyle/internal/core/ports"
	"arrowstyle/internal/engine/lint"
)

type Format string

const (
	FormatStylish Format = "stylish"
	FormatJSON    Format = "json"
	FormatSARIF   Format = "sarif"
)

// Names lists the accepted --format values.
func Names() []string {
	return []string{string(FormatStylish), string(FormatJSON), string(FormatSARIF)}
}

func Parse(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case FormatStylish, FormatJSON, FormatSARIF:
		return f, nil
	case "":
		return FormatStylish, nil
	default:
		return "", errors.Newf(errors.CodeValidationError, "unknown format %q (want one of %s)", name, strings.Join(Names(), ", "))
	}
}

// Write renders report in format f. Paths are shown relative to root.
func Write(w io.Writer, f Format, root string, metas []lint.Meta, report ports.LintReport) error {
	switch f {
	case FormatJSON:
		return WriteJSON(w, root, report)
	case FormatSARIF:
		data, err := GenerateSARIF(root, metas, report)
		if err != nil {
			return err
		}
		data = append(data, '\n')
		_, err = w.Write(data)
		return err
	default:
		return WriteStylish(w, root, report)
	}
}
