package formats

import (
	"encoding/json"

	"arrowstyle/internal/core/ports"
	"arrowstyle/internal/engine/lint"
	"arrowstyle/internal/shared/version"
)

// SARIF v2.1.0 schema – see https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json

const (
	sarifSchema  = "https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json"
	sarifVersion = "2.1.0"

	toolName = "arrowstyle"

	// ruleIDParse reports files that could not be parsed.
	ruleIDParse = "parse-error"
)

// sarifReport is the top-level SARIF document.
type sarifReport struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version"`
	Rules   []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string                 `json:"id"`
	Name             string                 `json:"name"`
	ShortDescription sarifMessage           `json:"shortDescription"`
	DefaultConfig    sarifRuleDefaultConfig `json:"defaultConfiguration"`
	Properties       *sarifRuleProperties   `json:"properties,omitempty"`
}

type sarifRuleProperties struct {
	Fixable bool `json:"fixable"`
}

type sarifRuleDefaultConfig struct {
	Level string `json:"level"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	RuleIndex *int           `json:"ruleIndex,omitempty"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           *sarifRegion          `json:"region,omitempty"`
}

type sarifArtifactLocation struct {
	URI       string `json:"uri"`
	URIBaseID string `json:"uriBaseId"`
}

type sarifRegion struct {
	StartLine   int `json:"startLine,omitempty"`
	StartColumn int `json:"startColumn,omitempty"`
	EndLine     int `json:"endLine,omitempty"`
	EndColumn   int `json:"endColumn,omitempty"`
}

// GenerateSARIF builds a SARIF v2.1.0 document from a lint report. The
// driver lists every rule in metas plus the synthetic parse-error rule.
// File URIs are made relative to projectRoot so that reports are safe to
// share.
func GenerateSARIF(projectRoot string, metas []lint.Meta, report ports.LintReport) ([]byte, error) {
	rules := buildSARIFRules(metas)
	index := make(map[string]int, len(rules))
	for i, r := range rules {
		index[r.ID] = i
	}

	results := make([]sarifResult, 0)
	for _, f := range report.Files {
		uri := relativeURI(projectRoot, f.Path)
		if msg := failureMessage(f); msg != "" {
			results = append(results, sarifResult{
				RuleID:    ruleIDParse,
				RuleIndex: ruleIndex(index, ruleIDParse),
				Level:     "error",
				Message:   sarifMessage{Text: msg},
				Locations: []sarifLocation{fileLocation(uri, nil)},
			})
		}
		for _, d := range f.Diagnostics {
			var region *sarifRegion
			if d.Line > 0 {
				region = &sarifRegion{
					StartLine:   d.Line,
					StartColumn: d.Column,
					EndLine:     d.EndLine,
					EndColumn:   d.EndColumn,
				}
			}
			results = append(results, sarifResult{
				RuleID:    d.Rule,
				RuleIndex: ruleIndex(index, d.Rule),
				Level:     severityToLevel(d.Severity),
				Message:   sarifMessage{Text: d.Message},
				Locations: []sarifLocation{fileLocation(uri, region)},
			})
		}
	}

	doc := sarifReport{
		Schema:  sarifSchema,
		Version: sarifVersion,
		Runs: []sarifRun{
			{
				Tool: sarifTool{
					Driver: sarifDriver{
						Name:    toolName,
						Version: version.Version,
						Rules:   rules,
					},
				},
				Results: results,
			},
		},
	}

	return json.MarshalIndent(doc, "", "  ")
}

func buildSARIFRules(metas []lint.Meta) []sarifRule {
	rules := make([]sarifRule, 0, len(metas)+1)
	for _, m := range metas {
		rules = append(rules, sarifRule{
			ID:               m.Name,
			Name:             m.Name,
			ShortDescription: sarifMessage{Text: m.Description},
			DefaultConfig:    sarifRuleDefaultConfig{Level: "error"},
			Properties:       &sarifRuleProperties{Fixable: m.Fixable},
		})
	}
	return append(rules, sarifRule{
		ID:               ruleIDParse,
		Name:             ruleIDParse,
		ShortDescription: sarifMessage{Text: "The file could not be parsed."},
		DefaultConfig:    sarifRuleDefaultConfig{Level: "error"},
	})
}

func ruleIndex(index map[string]int, id string) *int {
	if i, ok := index[id]; ok {
		return &i
	}
	return nil
}

func fileLocation(uri string, region *sarifRegion) sarifLocation {
	return sarifLocation{
		PhysicalLocation: sarifPhysicalLocation{
			ArtifactLocation: sarifArtifactLocation{
				URI:       uri,
				URIBaseID: "%SRCROOT%",
			},
			Region: region,
		},
	}
}

func severityToLevel(severity lint.Severity) string {
	switch severity {
	case lint.SeverityError:
		return "error"
	case lint.SeverityWarning:
		return "warning"
	default:
		return "note"
	}
}
