package engine

import (
	"testing"

	"github.com/deepsweep-ai/deepsweep/internal/match"
	"github.com/deepsweep-ai/deepsweep/internal/model"
)

func TestAggregateDeduplicates(t *testing.T) {
	matches := []match.RawMatch{
		{RuleID: "R-1", Severity: model.SeverityHigh, FilePath: "a", LineNumber: 3, Excerpt: "first"},
		{RuleID: "R-1", Severity: model.SeverityHigh, FilePath: "a", LineNumber: 3, Excerpt: "second"},
		{RuleID: "R-1", Severity: model.SeverityHigh, FilePath: "a", LineNumber: 4},
	}

	got := Aggregate(matches)
	if len(got) != 2 {
		t.Fatalf("expected 2 findings after dedup, got %d", len(got))
	}
	if got[0].MatchedExcerpt != "first" {
		t.Fatalf("dedup must keep the first excerpt, got %q", got[0].MatchedExcerpt)
	}
}

func TestAggregateSortOrder(t *testing.T) {
	matches := []match.RawMatch{
		{RuleID: "R-2", Severity: model.SeverityLow, FilePath: "b", LineNumber: 1},
		{RuleID: "R-1", Severity: model.SeverityCritical, FilePath: "z", LineNumber: 9},
		{RuleID: "R-3", Severity: model.SeverityCritical, FilePath: "a", LineNumber: 5},
		{RuleID: "R-4", Severity: model.SeverityCritical, FilePath: "a", LineNumber: 2},
		{RuleID: "R-0", Severity: model.SeverityHigh, FilePath: "a", LineNumber: 2},
	}

	got := Aggregate(matches)
	wantOrder := []string{"R-4", "R-3", "R-1", "R-0", "R-2"}
	if len(got) != len(wantOrder) {
		t.Fatalf("expected %d findings, got %d", len(wantOrder), len(got))
	}
	for i, id := range wantOrder {
		if got[i].RuleID != id {
			t.Fatalf("position %d: got %s, want %s (full: %+v)", i, got[i].RuleID, id, got)
		}
	}
}

func TestAggregateRuleIDTiebreak(t *testing.T) {
	matches := []match.RawMatch{
		{RuleID: "R-B", Severity: model.SeverityHigh, FilePath: "a", LineNumber: 1},
		{RuleID: "R-A", Severity: model.SeverityHigh, FilePath: "a", LineNumber: 1},
	}

	got := Aggregate(matches)
	if got[0].RuleID != "R-A" || got[1].RuleID != "R-B" {
		t.Fatalf("same severity/path/line must order by rule id: %+v", got)
	}
}

func TestAggregateEmpty(t *testing.T) {
	if got := Aggregate(nil); len(got) != 0 {
		t.Fatalf("nil input produced findings: %v", got)
	}
}
