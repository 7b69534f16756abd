// Package model defines the data types shared across the deepsweep engine:
// severities, findings, skip notes, and the run result with its stable JSON
// contract.
package model

import (
	"fmt"
	"strings"
)

type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityHigh     Severity = "HIGH"
	SeverityMedium   Severity = "MEDIUM"
	SeverityLow      Severity = "LOW"
)

// Severities lists all valid severities from most to least severe.
var Severities = []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow}

// Rank returns the sort rank of a severity: lower is more severe.
// Unknown severities rank after all known ones.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityHigh:
		return 1
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 3
	default:
		return 4
	}
}

func (s Severity) Valid() bool {
	switch s {
	case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow:
		return true
	default:
		return false
	}
}

// ParseSeverity normalizes a severity string ("critical", "HIGH", …).
func ParseSeverity(raw string) (Severity, error) {
	s := Severity(strings.ToUpper(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", fmt.Errorf("unknown severity %q", raw)
	}
	return s, nil
}

type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeF Grade = "F"
)

// Finding is one deduplicated, located rule match. Immutable once created.
// Identity is (RuleID, FilePath, LineNumber); the aggregator guarantees at
// most one Finding per identity per run.
type Finding struct {
	RuleID         string   `json:"rule_id"`
	Severity       Severity `json:"severity"`
	FilePath       string   `json:"file_path"`
	LineNumber     int      `json:"line_number"`
	MatchedExcerpt string   `json:"matched_excerpt"`
	Remediation    string   `json:"remediation"`
	References     []string `json:"references"`
}

// SkipNote records a file the collector passed over and why. Skip notes are
// informational run metadata: they never affect the score and never abort a
// run.
type SkipNote struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// Skip reasons used by the collector.
const (
	SkipReasonTooLarge   = "max_size_exceeded"
	SkipReasonBinary     = "binary_content"
	SkipReasonUnreadable = "read_error"
)

// Result is the complete output of one engine run.
//
// The JSON field names and their nesting are an external contract: renaming
// or reordering them is a schema break. Skips are deliberately excluded from
// the JSON encoding.
type Result struct {
	Findings     []Finding `json:"findings"`
	Score        int       `json:"score"`
	Grade        Grade     `json:"grade"`
	FileCount    int       `json:"file_count"`
	PatternCount int       `json:"pattern_count"`
	DurationMS   int64     `json:"duration_ms"`

	Skips []SkipNote `json:"-"`
}

// CountBySeverity returns finding counts keyed by severity.
func (r Result) CountBySeverity() map[Severity]int {
	counts := make(map[Severity]int, len(Severities))
	for _, f := range r.Findings {
		counts[f.Severity]++
	}
	return counts
}
