package formats

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"arrowstyle/internal/core/ports"
	"arrowstyle/internal/engine/lint"
	"arrowstyle/internal/shared/util"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"github.com/fatih/color"
)

var (
	pathColor    = color.New(color.Underline)
	faintColor   = color.New(color.Faint)
	errorColor   = color.New(color.FgRed)
	warningColor = color.New(color.FgYellow)
	summaryError = color.New(color.FgRed, color.Bold)
	summaryWarn  = color.New(color.FgYellow, color.Bold)
	fixedColor   = color.New(color.FgGreen)
)

type stylishRow struct {
	pos      string
	severity lint.Severity
	message  string
	rule     string
}

// WriteStylish renders report grouped by file, one aligned row per problem,
// followed by a summary footer. Clean files produce no output.
func WriteStylish(w io.Writer, root string, report ports.LintReport) error {
	bw := bufio.NewWriter(w)

	for _, f := range report.Files {
		rows := stylishRows(f)
		if len(rows) == 0 {
			continue
		}
		fmt.Fprintln(bw)
		fmt.Fprintln(bw, pathColor.Sprint(relativeURI(root, f.Path)))
		writeRows(bw, rows)
	}

	t := countDiagnostics(report.Files)
	if t.problems() > 0 {
		mark := summaryError
		if t.errors == 0 {
			mark = summaryWarn
		}
		fmt.Fprintln(bw)
		fmt.Fprintln(bw, mark.Sprintf("✖ %s (%s, %s)",
			pluralCount(t.problems(), "problem"),
			pluralCount(t.errors, "error"),
			pluralCount(t.warnings, "warning")))
		if t.fixable > 0 {
			fmt.Fprintln(bw, mark.Sprintf("  %s potentially fixable with the `--fix` option.",
				pluralCount(t.fixable, "problem")))
		}
	}

	if fixed := report.Fixed(); fixed > 0 {
		fmt.Fprintln(bw)
		fmt.Fprintln(bw, fixedColor.Sprintf("Fixed %s.", pluralCount(fixed, "file")))
	}

	if t.problems() > 0 || report.Fixed() > 0 {
		fmt.Fprintln(bw)
	}
	return bw.Flush()
}

func stylishRows(f ports.FileResult) []stylishRow {
	rows := make([]stylishRow, 0, len(f.Diagnostics)+1)
	if msg := failureMessage(f); msg != "" {
		rows = append(rows, stylishRow{pos: "0:0", severity: lint.SeverityError, message: msg})
	}
	for _, d := range f.Diagnostics {
		rows = append(rows, stylishRow{
			pos:      strconv.Itoa(d.Line) + ":" + strconv.Itoa(d.Column),
			severity: d.Severity,
			message:  d.Message,
			rule:     d.Rule,
		})
	}
	return rows
}

func writeRows(w io.Writer, rows []stylishRow) {
	posWidth, sevWidth, msgWidth := 0, 0, 0
	for _, r := range rows {
		posWidth = max(posWidth, len(r.pos))
		sevWidth = max(sevWidth, len(r.severity))
		msgWidth = max(msgWidth, util.DisplayWidth(r.message))
	}
	for _, r := range rows {
		sev := errorColor.Sprint(r.severity)
		if r.severity == lint.SeverityWarning {
			sev = warningColor.Sprint(r.severity)
		}
		line := "  " + pad(posWidth-len(r.pos)) + faintColor.Sprint(r.pos) +
			"  " + sev + pad(sevWidth-len(r.severity)) +
			"  " + r.message
		if r.rule != "" {
			line += pad(msgWidth-util.DisplayWidth(r.message)) + "  " + faintColor.Sprint(r.rule)
		}
		fmt.Fprintln(w, line)
	}
}

func pad(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(" ", n)
}

func pluralCount(n int, noun string) string {
	return humanize.Comma(int64(n)) + " " + english.PluralWord(n, noun, "")
}
