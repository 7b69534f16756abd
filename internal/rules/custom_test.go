package rules

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"
)

func mustCompile(t *testing.T, pattern string) *regexp.Regexp {
	t.Helper()
	re, err := regexp.Compile(pattern)
	if err != nil {
		t.Fatalf("compile %q: %v", pattern, err)
	}
	return re
}

func mustWriteFile(t *testing.T, path string, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadCustomDirList(t *testing.T) {
	dir := t.TempDir()
	mustWriteFile(t, filepath.Join(dir, "team.yaml"), `
rules:
  - id: TEAM-001
    name: Internal Hostname
    severity: high
    pattern: 'internal\.corp\.example'
    applies_to: ["*"]
    remediation: Remove internal hostnames.
  - id: TEAM-002
    name: Banned Phrase
    severity: low
    pattern: 'do not review'
    applies_to: [".cursorrules"]
    remediation: Remove it.
`)

	set, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if set.Len() != len(Builtins())+2 {
		t.Fatalf("expected builtins + 2 custom rules, got %d", set.Len())
	}
}

func TestLoadCustomDirSingleRule(t *testing.T) {
	dir := t.TempDir()
	mustWriteFile(t, filepath.Join(dir, "one.yml"), `
id: SOLO-001
name: Solo
severity: medium
pattern: 'solo'
applies_to: ["*"]
remediation: Remove it.
`)

	set, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	found := false
	for _, r := range set.All() {
		if r.ID == "SOLO-001" {
			found = true
		}
	}
	if !found {
		t.Fatal("single-rule file was not loaded")
	}
}

func TestLoadCustomDirParseError(t *testing.T) {
	dir := t.TempDir()
	mustWriteFile(t, filepath.Join(dir, "broken.yaml"), "rules: [::not yaml::")

	_, err := Load(dir)
	if err == nil {
		t.Fatal("expected parse error")
	}
	var le *LoadError
	if !errors.As(err, &le) {
		t.Fatalf("expected *LoadError, got %T", err)
	}
}

func TestLoadCustomDirMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent"))
	if err == nil {
		t.Fatal("expected missing rules dir to fail")
	}
}

func TestLoadCustomDuplicateOfBuiltin(t *testing.T) {
	dir := t.TempDir()
	mustWriteFile(t, filepath.Join(dir, "dup.yaml"), `
id: DS-PI-001
name: Clash
severity: low
pattern: 'x'
applies_to: ["*"]
remediation: n/a
`)

	_, err := Load(dir)
	if err == nil {
		t.Fatal("expected duplicate of builtin id to fail")
	}
}

func TestLoadCustomIgnoresNonYAML(t *testing.T) {
	dir := t.TempDir()
	mustWriteFile(t, filepath.Join(dir, "notes.txt"), "not a rule")

	set, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if set.Len() != len(Builtins()) {
		t.Fatalf("non-yaml file changed the rule count: %d", set.Len())
	}
}
