package rules

import (
	"errors"
	"strings"
	"testing"

	"github.com/deepsweep-ai/deepsweep/internal/model"
)

func TestBuiltinsCompile(t *testing.T) {
	set, err := NewSet(Builtins())
	if err != nil {
		t.Fatalf("builtin rules failed to compile: %v", err)
	}
	if set.Len() == 0 {
		t.Fatal("builtin rule set is empty")
	}
	for _, r := range set.All() {
		if r.Regexp() == nil {
			t.Errorf("rule %s has no compiled pattern", r.ID)
		}
		if !r.Severity.Valid() {
			t.Errorf("rule %s has invalid severity %q", r.ID, r.Severity)
		}
		if len(r.AppliesTo) == 0 {
			t.Errorf("rule %s applies to nothing", r.ID)
		}
		if strings.TrimSpace(r.Remediation) == "" {
			t.Errorf("rule %s has no remediation", r.ID)
		}
	}
}

func TestBuiltinIDsUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, r := range Builtins() {
		if seen[r.ID] {
			t.Errorf("duplicate builtin id %s", r.ID)
		}
		seen[r.ID] = true
	}
}

func TestNewSetRejectsDuplicateID(t *testing.T) {
	defs := []Rule{
		{ID: "X-001", Severity: model.SeverityLow, Pattern: "a", AppliesTo: []string{"*"}},
		{ID: "X-001", Severity: model.SeverityLow, Pattern: "b", AppliesTo: []string{"*"}},
	}
	_, err := NewSet(defs)
	if err == nil {
		t.Fatal("expected duplicate id to fail")
	}
	var le *LoadError
	if !errors.As(err, &le) {
		t.Fatalf("expected *LoadError, got %T", err)
	}
	if le.RuleID != "X-001" {
		t.Fatalf("unexpected rule id in error: %q", le.RuleID)
	}
}

func TestNewSetRejectsBadPattern(t *testing.T) {
	_, err := NewSet([]Rule{{ID: "X-001", Severity: model.SeverityLow, Pattern: "(unclosed", AppliesTo: []string{"*"}}})
	if err == nil {
		t.Fatal("expected invalid pattern to fail")
	}
	var le *LoadError
	if !errors.As(err, &le) {
		t.Fatalf("expected *LoadError, got %T", err)
	}
}

func TestNewSetRejectsEmptyID(t *testing.T) {
	_, err := NewSet([]Rule{{Severity: model.SeverityLow, Pattern: "a", AppliesTo: []string{"*"}}})
	if err == nil {
		t.Fatal("expected empty id to fail")
	}
}

func TestCaseInsensitiveByDefault(t *testing.T) {
	set, err := NewSet([]Rule{{ID: "X-001", Severity: model.SeverityLow, Pattern: "ignore previous", AppliesTo: []string{"*"}}})
	if err != nil {
		t.Fatal(err)
	}
	re := set.All()[0].Regexp()
	if !re.MatchString("IGNORE PREVIOUS") {
		t.Error("default rule should match case-insensitively")
	}
}

func TestCaseSensitiveRule(t *testing.T) {
	set, err := NewSet([]Rule{{ID: "X-001", Severity: model.SeverityLow, Pattern: "Secret", CaseSensitive: true, AppliesTo: []string{"*"}}})
	if err != nil {
		t.Fatal(err)
	}
	re := set.All()[0].Regexp()
	if re.MatchString("secret") {
		t.Error("case-sensitive rule must not match lowered text")
	}
	if !re.MatchString("Secret") {
		t.Error("case-sensitive rule must match exact text")
	}
}

func TestRulesFor(t *testing.T) {
	defs := []Rule{
		{ID: "R-BASE", Severity: model.SeverityLow, Pattern: "x", AppliesTo: []string{".cursorrules"}},
		{ID: "R-SUFFIX", Severity: model.SeverityLow, Pattern: "x", AppliesTo: []string{"*.mcp.json"}},
		{ID: "R-GLOB", Severity: model.SeverityLow, Pattern: "x", AppliesTo: []string{".cursor/rules/*"}},
	}
	set, err := NewSet(defs)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		path string
		want []string
	}{
		{".cursorrules", []string{"R-BASE"}},
		{"sub/dir/.cursorrules", []string{"R-BASE"}},
		{"server.mcp.json", []string{"R-SUFFIX"}},
		{"conf/prod.mcp.json", []string{"R-SUFFIX"}},
		{".cursor/rules/style.md", []string{"R-GLOB"}},
		{"README.md", nil},
	}
	for _, tt := range tests {
		got := set.RulesFor(tt.path)
		var ids []string
		for _, r := range got {
			ids = append(ids, r.ID)
		}
		if len(ids) != len(tt.want) {
			t.Errorf("RulesFor(%q) = %v, want %v", tt.path, ids, tt.want)
			continue
		}
		for i := range ids {
			if ids[i] != tt.want[i] {
				t.Errorf("RulesFor(%q) = %v, want %v", tt.path, ids, tt.want)
			}
		}
	}
}

func TestGlobToRegex(t *testing.T) {
	tests := []struct {
		glob  string
		path  string
		match bool
	}{
		{"*.yaml", "rules.yaml", true},
		{"*.yaml", "sub/rules.yaml", true},
		{"*.yaml", "rules.yml", false},
		{"docs/*.md", "docs/a.md", true},
		{"docs/*.md", "docs/sub/a.md", false},
		{"**/*.md", "docs/sub/a.md", true},
		{"a?c", "abc", true},
		{"a?c", "a/c", false},
	}
	for _, tt := range tests {
		re := globToRegex(tt.glob)
		matched := mustCompile(t, re).MatchString(tt.path)
		if matched != tt.match {
			t.Errorf("glob %q vs %q: got %v, want %v (regex %s)", tt.glob, tt.path, matched, tt.match, re)
		}
	}
}
