package report

import (
	"encoding/json"
	"fmt"

	"github.com/deepsweep-ai/deepsweep/internal/model"
	"github.com/deepsweep-ai/deepsweep/internal/version"
)

// SARIF v2.1.0 types, minimal subset for GitHub Code Scanning.

type sarifLog struct {
	Version string     `json:"version"`
	Schema  string     `json:"$schema"`
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
	Name           string      `json:"name"`
	InformationURI string      `json:"informationUri"`
	Version        string      `json:"version"`
	Rules          []sarifRule `json:"rules,omitempty"`
}

type sarifRule struct {
	ID               string              `json:"id"`
	ShortDescription sarifMessage        `json:"shortDescription,omitempty"`
	Help             *sarifMessage       `json:"help,omitempty"`
	DefaultConfig    *sarifDefaultConfig `json:"defaultConfiguration,omitempty"`
}

type sarifDefaultConfig struct {
	Level string `json:"level"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
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
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine int `json:"startLine"`
}

func renderSARIF(result model.Result) (string, error) {
	b, err := json.MarshalIndent(buildSARIF(result), "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal sarif report: %w", err)
	}
	return string(b) + "\n", nil
}

func buildSARIF(result model.Result) sarifLog {
	ruleIndex := map[string]int{}
	var rules []sarifRule
	results := []sarifResult{}

	for _, f := range result.Findings {
		if _, seen := ruleIndex[f.RuleID]; !seen {
			ruleIndex[f.RuleID] = len(rules)
			rule := sarifRule{
				ID:               f.RuleID,
				ShortDescription: sarifMessage{Text: f.RuleID},
				DefaultConfig:    &sarifDefaultConfig{Level: mapSeverityToSARIF(f.Severity)},
			}
			if f.Remediation != "" {
				rule.Help = &sarifMessage{Text: f.Remediation}
			}
			rules = append(rules, rule)
		}

		messageText := f.MatchedExcerpt
		if messageText == "" {
			messageText = f.RuleID
		}

		results = append(results, sarifResult{
			RuleID:  f.RuleID,
			Level:   mapSeverityToSARIF(f.Severity),
			Message: sarifMessage{Text: messageText},
			Locations: []sarifLocation{{
				PhysicalLocation: sarifPhysicalLocation{
					ArtifactLocation: sarifArtifactLocation{URI: f.FilePath},
					Region:           &sarifRegion{StartLine: f.LineNumber},
				},
			}},
		})
	}

	return sarifLog{
		Version: "2.1.0",
		Schema:  "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/main/sarif-2.1/schema/sarif-schema-2.1.0.json",
		Runs: []sarifRun{{
			Tool: sarifTool{
				Driver: sarifDriver{
					Name:           "deepsweep",
					InformationURI: "https://github.com/deepsweep-ai/deepsweep",
					Version:        version.Version,
					Rules:          rules,
				},
			},
			Results: results,
		}},
	}
}

// mapSeverityToSARIF collapses the four severities onto the three SARIF
// levels GitHub renders.
func mapSeverityToSARIF(sev model.Severity) string {
	switch sev {
	case model.SeverityCritical, model.SeverityHigh:
		return "error"
	case model.SeverityMedium:
		return "warning"
	default:
		return "note"
	}
}
