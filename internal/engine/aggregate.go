package engine

import (
	"sort"

	"github.com/deepsweep-ai/deepsweep/internal/match"
	"github.com/deepsweep-ai/deepsweep/internal/model"
)

type findingKey struct {
	ruleID string
	path   string
	line   int
}

// Aggregate converts raw matches into findings: deduplicate on
// (rule_id, file_path, line_number) keeping the first excerpt encountered,
// then order deterministically by severity rank, file path, line number,
// rule id. The ordering is a contract: two runs over the same input render
// findings identically regardless of filesystem iteration order.
func Aggregate(matches []match.RawMatch) []model.Finding {
	seen := make(map[findingKey]struct{}, len(matches))
	findings := make([]model.Finding, 0, len(matches))
	for _, m := range matches {
		key := findingKey{ruleID: m.RuleID, path: m.FilePath, line: m.LineNumber}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		findings = append(findings, model.Finding{
			RuleID:         m.RuleID,
			Severity:       m.Severity,
			FilePath:       m.FilePath,
			LineNumber:     m.LineNumber,
			MatchedExcerpt: m.Excerpt,
			Remediation:    m.Remediation,
			References:     m.References,
		})
	}

	sort.SliceStable(findings, func(i, j int) bool {
		a, b := findings[i], findings[j]
		if a.Severity.Rank() != b.Severity.Rank() {
			return a.Severity.Rank() < b.Severity.Rank()
		}
		if a.FilePath != b.FilePath {
			return a.FilePath < b.FilePath
		}
		if a.LineNumber != b.LineNumber {
			return a.LineNumber < b.LineNumber
		}
		return a.RuleID < b.RuleID
	})
	return findings
}
