package model

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		in      string
		want    Severity
		wantErr bool
	}{
		{"critical", SeverityCritical, false},
		{"CRITICAL", SeverityCritical, false},
		{" High ", SeverityHigh, false},
		{"medium", SeverityMedium, false},
		{"low", SeverityLow, false},
		{"", "", true},
		{"severe", "", true},
	}
	for _, tt := range tests {
		got, err := ParseSeverity(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseSeverity(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseSeverity(%q) failed: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseSeverity(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSeverityRankOrder(t *testing.T) {
	for i := 1; i < len(Severities); i++ {
		if Severities[i-1].Rank() >= Severities[i].Rank() {
			t.Fatalf("rank order broken between %s and %s", Severities[i-1], Severities[i])
		}
	}
	if Severity("BOGUS").Rank() <= SeverityLow.Rank() {
		t.Fatal("unknown severity must rank after all known severities")
	}
}

func TestResultJSONContract(t *testing.T) {
	result := Result{
		Findings: []Finding{{
			RuleID:         "DS-PI-001",
			Severity:       SeverityCritical,
			FilePath:       ".cursorrules",
			LineNumber:     3,
			MatchedExcerpt: "ignore all previous instructions",
			Remediation:    "remove it",
			References:     []string{"https://example.com"},
		}},
		Score:        75,
		Grade:        GradeC,
		FileCount:    2,
		PatternCount: 28,
		DurationMS:   12,
		Skips:        []SkipNote{{Path: "big.bin", Reason: SkipReasonTooLarge}},
	}

	data, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("marshal result: %v", err)
	}
	body := string(data)

	for _, key := range []string{
		`"findings"`, `"rule_id"`, `"severity"`, `"file_path"`, `"line_number"`,
		`"matched_excerpt"`, `"remediation"`, `"references"`,
		`"score"`, `"grade"`, `"file_count"`, `"pattern_count"`, `"duration_ms"`,
	} {
		if !strings.Contains(body, key) {
			t.Errorf("JSON output missing key %s", key)
		}
	}
	if strings.Contains(body, "big.bin") || strings.Contains(body, "Skips") {
		t.Error("skip notes must not appear in JSON output")
	}
}

func TestCountBySeverity(t *testing.T) {
	result := Result{Findings: []Finding{
		{Severity: SeverityCritical},
		{Severity: SeverityHigh},
		{Severity: SeverityHigh},
		{Severity: SeverityLow},
	}}
	counts := result.CountBySeverity()
	if counts[SeverityCritical] != 1 || counts[SeverityHigh] != 2 || counts[SeverityMedium] != 0 || counts[SeverityLow] != 1 {
		t.Fatalf("unexpected counts: %v", counts)
	}
}
