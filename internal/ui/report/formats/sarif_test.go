package formats

import (
	"encoding/json"
	"strings"
	"testing"

	"arrowstyle/internal/core/errors"
	"arrowstyle/internal/core/ports"
	"arrowstyle/internal/engine/lint"
)

var testMetas = []lint.Meta{
	{Name: "arrow-return-style", Description: "Enforce arrow function return style", Fixable: true},
	{Name: "no-export-default-arrow", Description: "Disallow anonymous arrow functions as export default", Fixable: true},
}

func TestGenerateSARIF_EmptyResults(t *testing.T) {
	data, err := GenerateSARIF("", testMetas, ports.LintReport{})
	if err != nil {
		t.Fatalf("GenerateSARIF returned error: %v", err)
	}
	var report sarifReport
	if err := json.Unmarshal(data, &report); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if report.Schema != sarifSchema {
		t.Errorf("$schema = %q, want %q", report.Schema, sarifSchema)
	}
	if report.Version != sarifVersion {
		t.Errorf("version = %q, want %q", report.Version, sarifVersion)
	}
	if len(report.Runs) != 1 {
		t.Fatalf("len(runs) = %d, want 1", len(report.Runs))
	}
	if len(report.Runs[0].Results) != 0 {
		t.Errorf("expected 0 results, got %d", len(report.Runs[0].Results))
	}
	rules := report.Runs[0].Tool.Driver.Rules
	if len(rules) != 3 {
		t.Fatalf("expected 3 rules, got %d", len(rules))
	}
	if rules[0].ID != "arrow-return-style" || rules[2].ID != ruleIDParse {
		t.Errorf("unexpected rule order: %q, %q", rules[0].ID, rules[2].ID)
	}
	if rules[0].Properties == nil || !rules[0].Properties.Fixable {
		t.Error("expected fixable property on arrow-return-style")
	}
}

func TestGenerateSARIF_DiagnosticUsesRelativeURI(t *testing.T) {
	report := ports.LintReport{Files: []ports.FileResult{{
		Path: "/project/src/hooks/use-mouse.ts",
		Diagnostics: []lint.Diagnostic{{
			Rule:      "no-export-default-arrow",
			Message:   "Prefer named exports.",
			Severity:  lint.SeverityError,
			Line:      3,
			Column:    16,
			EndLine:   5,
			EndColumn: 2,
		}},
	}}}
	data, err := GenerateSARIF("/project", testMetas, report)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var doc sarifReport
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	results := doc.Runs[0].Results
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	r := results[0]
	if r.RuleID != "no-export-default-arrow" {
		t.Errorf("ruleId = %q", r.RuleID)
	}
	if r.RuleIndex == nil || *r.RuleIndex != 1 {
		t.Errorf("ruleIndex = %v, want 1", r.RuleIndex)
	}
	if r.Level != "error" {
		t.Errorf("level = %q, want error", r.Level)
	}
	if len(r.Locations) == 0 {
		t.Fatal("expected location on result")
	}
	loc := r.Locations[0].PhysicalLocation
	if loc.ArtifactLocation.URI != "src/hooks/use-mouse.ts" {
		t.Errorf("URI = %q, want src/hooks/use-mouse.ts", loc.ArtifactLocation.URI)
	}
	if loc.ArtifactLocation.URIBaseID != "%SRCROOT%" {
		t.Errorf("uriBaseId should be %%SRCROOT%%")
	}
	if loc.Region == nil || loc.Region.StartLine != 3 || loc.Region.EndLine != 5 || loc.Region.EndColumn != 2 {
		t.Errorf("unexpected region %+v", loc.Region)
	}
}

func TestGenerateSARIF_ParseError(t *testing.T) {
	report := ports.LintReport{Files: []ports.FileResult{{
		Path:       "/project/broken.ts",
		ParseError: errors.New(errors.CodeParse, "syntax error at 1:7 (ERROR)"),
	}}}
	data, err := GenerateSARIF("/project", testMetas, report)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var doc sarifReport
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	results := doc.Runs[0].Results
	if len(results) != 1 || results[0].RuleID != ruleIDParse {
		t.Fatalf("expected one parse-error result, got %+v", results)
	}
	if !strings.Contains(results[0].Message.Text, "syntax error at 1:7") {
		t.Errorf("message = %q", results[0].Message.Text)
	}
	if results[0].Locations[0].PhysicalLocation.Region != nil {
		t.Error("parse errors carry no region")
	}
}

func TestRelativeURI(t *testing.T) {
	cases := []struct {
		root    string
		path    string
		wantURI string
	}{
		{"/project", "/project/src/foo.ts", "src/foo.ts"},
		{"/project", "/other/bar.ts", "/other/bar.ts"},
		{"", "/abs/path.ts", "/abs/path.ts"},
		{"/project", "relative/path.ts", "relative/path.ts"},
	}
	for _, tc := range cases {
		got := relativeURI(tc.root, tc.path)
		if got != tc.wantURI {
			t.Errorf("relativeURI(%q, %q) = %q, want %q", tc.root, tc.path, got, tc.wantURI)
		}
	}
}

func TestSeverityToLevel(t *testing.T) {
	cases := []struct {
		sev  lint.Severity
		want string
	}{
		{lint.SeverityError, "error"},
		{lint.SeverityWarning, "warning"},
		{"", "note"},
	}
	for _, tc := range cases {
		got := severityToLevel(tc.sev)
		if got != tc.want {
			t.Errorf("severity %q → level %q, want %q", tc.sev, got, tc.want)
		}
	}
}
