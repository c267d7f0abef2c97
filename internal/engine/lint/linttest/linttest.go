// Package linttest runs table-driven cases against a single rule.
package linttest

import (
	"context"
	"strings"
	"testing"

	"arrowstyle/internal/engine/formatter"
	"arrowstyle/internal/engine/lint"
	"arrowstyle/internal/engine/parser"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// DefaultFilename is used when a case names no file. The tsx grammar
// accepts both type annotations and JSX.
const DefaultFilename = "file.tsx"

// Valid is code the rule must not report.
type Valid struct {
	Name     string
	Code     string
	Filename string
	Options  map[string]any
	Worker   formatter.Worker
}

// Invalid is code the rule must report with Messages, in order, and fix
// into Output. Output is re-linted and must come back clean.
type Invalid struct {
	Name     string
	Code     string
	Filename string
	Options  map[string]any
	Worker   formatter.Worker
	Messages []string
	Output   string
}

func Run(t *testing.T, rule lint.Rule, valid []Valid, invalid []Invalid) {
	t.Helper()
	loader, err := parser.NewGrammarLoader()
	require.NoError(t, err)
	p := parser.NewParser(loader)

	for _, tc := range valid {
		t.Run("valid/"+caseName(tc.Name, tc.Code), func(t *testing.T) {
			l := newLinter(p, rule, tc.Options, tc.Worker)
			diags, err := l.Lint(context.Background(), file(tc.Filename, tc.Code))
			require.NoError(t, err)
			assert.Empty(t, messageIDs(diags), "unexpected reports for:\n%s", tc.Code)
		})
	}

	for _, tc := range invalid {
		t.Run("invalid/"+caseName(tc.Name, tc.Code), func(t *testing.T) {
			l := newLinter(p, rule, tc.Options, tc.Worker)
			ctx := context.Background()

			diags, err := l.Lint(ctx, file(tc.Filename, tc.Code))
			require.NoError(t, err)
			assert.Equal(t, tc.Messages, messageIDs(diags))

			res, err := l.Fix(ctx, file(tc.Filename, tc.Code))
			require.NoError(t, err)
			assert.Equal(t, tc.Output, string(res.Output))

			again, err := newLinter(p, rule, tc.Options, tc.Worker).Lint(ctx, file(tc.Filename, string(res.Output)))
			require.NoError(t, err)
			assert.Empty(t, messageIDs(again), "fixed output is reported again:\n%s", res.Output)
		})
	}
}

func newLinter(p *parser.Parser, rule lint.Rule, options map[string]any, worker formatter.Worker) *lint.Linter {
	session := lint.NewSession(formatter.NewClient(worker))
	return lint.NewLinter(p, session, []lint.ConfiguredRule{{Rule: rule, Options: options}})
}

func file(name, code string) lint.File {
	if name == "" {
		name = DefaultFilename
	}
	return lint.File{Path: name, Filename: name, Content: []byte(code)}
}

func messageIDs(diags []lint.Diagnostic) []string {
	if len(diags) == 0 {
		return nil
	}
	ids := make([]string, len(diags))
	for i, d := range diags {
		ids[i] = d.MessageID
	}
	return ids
}

func caseName(name, code string) string {
	if name != "" {
		return name
	}
	first, _, _ := strings.Cut(strings.TrimSpace(code), "\n")
	if r := []rune(first); len(r) > 40 {
		first = string(r[:40])
	}
	return first
}
