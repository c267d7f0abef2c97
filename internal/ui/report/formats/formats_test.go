package formats

import (
	"bytes"
	"encoding/json"
	"testing"

	"arrowstyle/internal/core/errors"
	"arrowstyle/internal/core/ports"
	"arrowstyle/internal/engine/lint"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withoutColor(t *testing.T) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })
}

func sampleReport() ports.LintReport {
	return ports.LintReport{Files: []ports.FileResult{
		{Path: "/repo/src/clean.ts"},
		{
			Path: "/repo/src/a.ts",
			Diagnostics: []lint.Diagnostic{
				{
					Rule:      "arrow-return-style",
					MessageID: "useImplicitReturn",
					Message:   "Use implicit return for arrow function bodies.",
					Severity:  lint.SeverityError,
					Line:      1,
					Column:    11,
					EndLine:   3,
					EndColumn: 2,
					Fixable:   true,
				},
				{
					Rule:     "no-export-default-arrow",
					Message:  "Prefer named exports.",
					Severity: lint.SeverityWarning,
					Line:     12,
					Column:   16,
				},
			},
		},
		{
			Path:       "/repo/src/broken.ts",
			ParseError: errors.New(errors.CodeParse, "syntax error at 2:1 (ERROR)"),
		},
	}}
}

func TestParse(t *testing.T) {
	f, err := Parse("")
	require.NoError(t, err)
	assert.Equal(t, FormatStylish, f)

	f, err = Parse(" SARIF ")
	require.NoError(t, err)
	assert.Equal(t, FormatSARIF, f)

	_, err = Parse("junit")
	assert.True(t, errors.IsCode(err, errors.CodeValidationError))
}

func TestWriteStylish(t *testing.T) {
	withoutColor(t)

	var buf bytes.Buffer
	require.NoError(t, WriteStylish(&buf, "/repo", sampleReport()))
	out := buf.String()

	assert.NotContains(t, out, "clean.ts")
	assert.Contains(t, out, "\nsrc/a.ts\n")
	assert.Contains(t, out, "   1:11  error    Use implicit return for arrow function bodies.  arrow-return-style\n")
	assert.Contains(t, out, "  12:16  warning  Prefer named exports.                           no-export-default-arrow\n")
	assert.Contains(t, out, "\nsrc/broken.ts\n  0:0  error  Parsing error: syntax error at 2:1 (ERROR)\n")
	assert.Contains(t, out, "✖ 3 problems (2 errors, 1 warning)")
	assert.Contains(t, out, "1 problem potentially fixable with the `--fix` option.")
}

func TestWriteStylish_CleanAndFixed(t *testing.T) {
	withoutColor(t)

	var buf bytes.Buffer
	require.NoError(t, WriteStylish(&buf, "/repo", ports.LintReport{Files: []ports.FileResult{{Path: "/repo/a.ts"}}}))
	assert.Empty(t, buf.String())

	buf.Reset()
	report := ports.LintReport{Files: []ports.FileResult{
		{Path: "/repo/a.ts", Changed: true},
		{Path: "/repo/b.ts", Changed: true},
	}}
	require.NoError(t, WriteStylish(&buf, "/repo", report))
	assert.Equal(t, "\nFixed 2 files.\n\n", buf.String())
}

func TestWriteJSON(t *testing.T) {
	report := sampleReport()
	report.Files[1].Changed = true
	report.Files[1].Output = []byte("const a = () => 1\n")

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, "/repo", report))

	var files []jsonFile
	require.NoError(t, json.Unmarshal(buf.Bytes(), &files))
	require.Len(t, files, 3)

	assert.Equal(t, "src/clean.ts", files[0].FilePath)
	assert.Empty(t, files[0].Messages)
	assert.Nil(t, files[0].Output)

	a := files[1]
	assert.Equal(t, 1, a.ErrorCount)
	assert.Equal(t, 1, a.WarningCount)
	assert.Equal(t, 1, a.FixableErrorCount)
	require.Len(t, a.Messages, 2)
	require.NotNil(t, a.Messages[0].RuleID)
	assert.Equal(t, "arrow-return-style", *a.Messages[0].RuleID)
	assert.Equal(t, 2, a.Messages[0].Severity)
	assert.Equal(t, 1, a.Messages[1].Severity)
	require.NotNil(t, a.Output)
	assert.Equal(t, "const a = () => 1\n", *a.Output)

	broken := files[2]
	require.Len(t, broken.Messages, 1)
	assert.Nil(t, broken.Messages[0].RuleID)
	assert.True(t, broken.Messages[0].Fatal)
	assert.Equal(t, 1, broken.ErrorCount)
}

func TestUnifiedDiff(t *testing.T) {
	t.Run("identical", func(t *testing.T) {
		assert.Empty(t, UnifiedDiff("a.ts", "x\n", "x\n"))
	})

	t.Run("context", func(t *testing.T) {
		before := "a\nb\nc\nd\ne\nf\ng\nh\n"
		after := "a\nb\nc\nd\nE\nf\ng\nh\n"
		want := "--- a/a.ts\n+++ b/a.ts\n" +
			"@@ -2,7 +2,7 @@\n" +
			" b\n c\n d\n-e\n+E\n f\n g\n h\n"
		assert.Equal(t, want, UnifiedDiff("a.ts", before, after))
	})

	t.Run("rewrite", func(t *testing.T) {
		before := "export default () => {\n  return 1\n}\n"
		after := "const getOne = () => 1\n\nexport default getOne\n"
		want := "--- a/get-one.js\n+++ b/get-one.js\n" +
			"@@ -1,3 +1,3 @@\n" +
			"-export default () => {\n-  return 1\n-}\n" +
			"+const getOne = () => 1\n+\n+export default getOne\n"
		assert.Equal(t, want, UnifiedDiff("get-one.js", before, after))
	})

	t.Run("separate hunks", func(t *testing.T) {
		before := "1\n2\n3\n4\n5\n6\n7\n8\n9\n10\n11\n12\n"
		after := "one\n2\n3\n4\n5\n6\n7\n8\n9\n10\n11\ntwelve\n"
		out := UnifiedDiff("n.ts", before, after)
		assert.Contains(t, out, "@@ -1,4 +1,4 @@\n-1\n+one\n 2\n 3\n 4\n")
		assert.Contains(t, out, "@@ -9,4 +9,4 @@\n 9\n 10\n 11\n-12\n+twelve\n")
	})

	t.Run("missing trailing newline", func(t *testing.T) {
		out := UnifiedDiff("x.ts", "a", "b")
		assert.Equal(t, "--- a/x.ts\n+++ b/x.ts\n@@ -1 +1 @@\n-a\n\\ No newline at end of file\n+b\n\\ No newline at end of file\n", out)
	})
}

func TestWriteDiff(t *testing.T) {
	withoutColor(t)

	report := ports.LintReport{Files: []ports.FileResult{
		{Path: "/repo/same.ts"},
		{Path: "/repo/src/a.ts", Changed: true, Original: []byte("a\n"), Output: []byte("b\n")},
	}}
	var buf bytes.Buffer
	require.NoError(t, WriteDiff(&buf, "/repo", report))
	assert.Equal(t, "--- a/src/a.ts\n+++ b/src/a.ts\n@@ -1 +1 @@\n-a\n+b\n", buf.String())
}

func TestWrite_Dispatch(t *testing.T) {
	withoutColor(t)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatSARIF, "/repo", testMetas, sampleReport()))
	assert.Contains(t, buf.String(), `"name": "arrowstyle"`)

	buf.Reset()
	require.NoError(t, Write(&buf, FormatJSON, "/repo", testMetas, sampleReport()))
	assert.Contains(t, buf.String(), `"filePath": "src/a.ts"`)
}
