package formats

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"arrowstyle/internal/core/ports"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
)

const diffContext = 3

var (
	hunkColor    = color.New(color.FgCyan)
	removedColor = color.New(color.FgRed)
	addedColor   = color.New(color.FgGreen)
)

type diffLine struct {
	op   diffmatchpatch.Operation
	text string
}

// WriteDiff prints a unified diff for every file whose fixed output differs
// from its original content.
func WriteDiff(w io.Writer, root string, report ports.LintReport) error {
	bw := bufio.NewWriter(w)
	for _, f := range report.Files {
		if !f.Changed {
			continue
		}
		name := relativeURI(root, f.Path)
		for _, line := range strings.SplitAfter(UnifiedDiff(name, string(f.Original), string(f.Output)), "\n") {
			if line == "" {
				continue
			}
			switch {
			case strings.HasPrefix(line, "@@"):
				line = hunkColor.Sprint(strings.TrimSuffix(line, "\n")) + "\n"
			case strings.HasPrefix(line, "---"), strings.HasPrefix(line, "+++"):
			case strings.HasPrefix(line, "-"):
				line = removedColor.Sprint(strings.TrimSuffix(line, "\n")) + "\n"
			case strings.HasPrefix(line, "+"):
				line = addedColor.Sprint(strings.TrimSuffix(line, "\n")) + "\n"
			}
			if _, err := bw.WriteString(line); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

// UnifiedDiff renders a line-based unified diff between before and after
// with three lines of context. Identical inputs produce an empty string.
func UnifiedDiff(name, before, after string) string {
	if before == after {
		return ""
	}
	lines := diffLines(before, after)

	var changes []int
	for i, l := range lines {
		if l.op != diffmatchpatch.DiffEqual {
			changes = append(changes, i)
		}
	}

	oldBefore := make([]int, len(lines)+1)
	newBefore := make([]int, len(lines)+1)
	for i, l := range lines {
		oldBefore[i+1] = oldBefore[i]
		newBefore[i+1] = newBefore[i]
		if l.op != diffmatchpatch.DiffInsert {
			oldBefore[i+1]++
		}
		if l.op != diffmatchpatch.DiffDelete {
			newBefore[i+1]++
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "--- a/%s\n+++ b/%s\n", name, name)
	for i := 0; i < len(changes); {
		j := i
		for j+1 < len(changes) && changes[j+1]-changes[j]-1 <= 2*diffContext {
			j++
		}
		start := max(changes[i]-diffContext, 0)
		end := min(changes[j]+diffContext+1, len(lines))

		oldCount := oldBefore[end] - oldBefore[start]
		newCount := newBefore[end] - newBefore[start]
		fmt.Fprintf(&b, "@@ -%s +%s @@\n",
			hunkRange(oldBefore[start], oldCount), hunkRange(newBefore[start], newCount))
		for _, l := range lines[start:end] {
			prefix := " "
			switch l.op {
			case diffmatchpatch.DiffDelete:
				prefix = "-"
			case diffmatchpatch.DiffInsert:
				prefix = "+"
			}
			b.WriteString(prefix)
			b.WriteString(l.text)
			if !strings.HasSuffix(l.text, "\n") {
				b.WriteString("\n\\ No newline at end of file\n")
			}
		}
		i = j + 1
	}
	return b.String()
}

func hunkRange(before, count int) string {
	start := before + 1
	if count == 0 {
		start = before
	}
	if count == 1 {
		return fmt.Sprintf("%d", start)
	}
	return fmt.Sprintf("%d,%d", start, count)
}

func diffLines(before, after string) []diffLine {
	dmp := diffmatchpatch.New()
	a, b, table := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), table)

	var out []diffLine
	for _, d := range diffs {
		for _, text := range strings.SplitAfter(d.Text, "\n") {
			if text == "" {
				continue
			}
			out = append(out, diffLine{op: d.Type, text: text})
		}
	}
	return out
}
