// Package rules holds the detection rule schema, the built-in rule set, and
// loading of custom rule definitions. A Set is compiled once at startup and
// is read-only afterwards, so it is safe to share across matcher workers
// without locking.
package rules

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/deepsweep-ai/deepsweep/internal/model"
)

// Rule is a single detection definition. Pattern is RE2 syntax; when
// CaseSensitive is false the pattern is compiled with a (?i) prefix.
//
// AppliesTo bounds the rule to known configuration surfaces: a rule never
// fires on a file it is not applicable to, regardless of pattern match.
// Entries are matched against the slash-separated relative path and may be
// an exact base name (".cursorrules"), a suffix glob ("*.mcp.json"), or a
// path glob (".cursor/rules/*").
type Rule struct {
	ID            string         `yaml:"id"`
	Name          string         `yaml:"name"`
	Severity      model.Severity `yaml:"severity"`
	Pattern       string         `yaml:"pattern"`
	CaseSensitive bool           `yaml:"case_sensitive,omitempty"`
	AppliesTo     []string       `yaml:"applies_to"`
	Remediation   string         `yaml:"remediation"`
	References    []string       `yaml:"references,omitempty"`

	re       *regexp.Regexp
	matchers []pathMatcher
}

// Regexp returns the compiled pattern. Only valid on rules obtained from a
// loaded Set.
func (r *Rule) Regexp() *regexp.Regexp { return r.re }

// LoadError reports a malformed rule set. It is fatal: the engine refuses to
// scan anything when the rule set cannot be loaded in full.
type LoadError struct {
	RuleID string
	Err    error
}

func (e *LoadError) Error() string {
	if e.RuleID == "" {
		return fmt.Sprintf("load rules: %v", e.Err)
	}
	return fmt.Sprintf("load rule %s: %v", e.RuleID, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Set is an immutable collection of compiled rules.
type Set struct {
	rules []Rule
}

// Load compiles the built-in rules plus any custom definitions found in
// customDir (may be empty). Duplicate ids and uncompilable patterns are
// LoadErrors.
func Load(customDir string) (*Set, error) {
	defs := Builtins()
	if strings.TrimSpace(customDir) != "" {
		custom, err := loadCustomDir(customDir)
		if err != nil {
			return nil, err
		}
		defs = append(defs, custom...)
	}
	return NewSet(defs)
}

// NewSet compiles and validates an explicit rule list.
func NewSet(defs []Rule) (*Set, error) {
	seen := make(map[string]struct{}, len(defs))
	compiled := make([]Rule, 0, len(defs))
	for _, def := range defs {
		id := strings.TrimSpace(def.ID)
		if id == "" {
			return nil, &LoadError{Err: fmt.Errorf("rule with empty id")}
		}
		if _, dup := seen[id]; dup {
			return nil, &LoadError{RuleID: id, Err: fmt.Errorf("duplicate rule id")}
		}
		seen[id] = struct{}{}

		if !def.Severity.Valid() {
			sev, err := model.ParseSeverity(string(def.Severity))
			if err != nil {
				return nil, &LoadError{RuleID: id, Err: err}
			}
			def.Severity = sev
		}

		pattern := def.Pattern
		if strings.TrimSpace(pattern) == "" {
			return nil, &LoadError{RuleID: id, Err: fmt.Errorf("empty pattern")}
		}
		if !def.CaseSensitive {
			pattern = "(?i)" + pattern
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, &LoadError{RuleID: id, Err: fmt.Errorf("compile pattern: %w", err)}
		}
		def.ID = id
		def.re = re
		def.matchers = compileMatchers(def.AppliesTo)
		compiled = append(compiled, def)
	}
	return &Set{rules: compiled}, nil
}

// Len reports the number of rules in the set.
func (s *Set) Len() int { return len(s.rules) }

// All returns the full rule list in load order.
func (s *Set) All() []*Rule {
	out := make([]*Rule, len(s.rules))
	for i := range s.rules {
		out[i] = &s.rules[i]
	}
	return out
}

// RulesFor returns the rules applicable to the given slash-separated
// relative path. The filter runs once per file, not once per match.
func (s *Set) RulesFor(relPath string) []*Rule {
	relPath = path.Clean(strings.TrimSpace(relPath))
	if relPath == "" || relPath == "." {
		return nil
	}
	var out []*Rule
	for i := range s.rules {
		if s.rules[i].appliesTo(relPath) {
			out = append(out, &s.rules[i])
		}
	}
	return out
}

func (r *Rule) appliesTo(relPath string) bool {
	for _, m := range r.matchers {
		if m.match(relPath) {
			return true
		}
	}
	return false
}

// pathMatcher matches one applies_to entry against a relative path.
type pathMatcher struct {
	exactBase string
	suffix    string
	glob      *regexp.Regexp
}

func (m pathMatcher) match(relPath string) bool {
	switch {
	case m.exactBase != "":
		return path.Base(relPath) == m.exactBase
	case m.suffix != "":
		return strings.HasSuffix(relPath, m.suffix) || strings.HasSuffix(path.Base(relPath), m.suffix)
	case m.glob != nil:
		return m.glob.MatchString(relPath)
	default:
		return false
	}
}

func compileMatchers(patterns []string) []pathMatcher {
	out := make([]pathMatcher, 0, len(patterns))
	for _, raw := range patterns {
		p := strings.TrimSpace(raw)
		if p == "" {
			continue
		}
		switch {
		case strings.HasPrefix(p, "*.") && !strings.Contains(p[1:], "*") && !strings.Contains(p, "/"):
			out = append(out, pathMatcher{suffix: p[1:]})
		case !strings.ContainsAny(p, "*?") && !strings.Contains(p, "/"):
			out = append(out, pathMatcher{exactBase: p})
		default:
			if re, err := regexp.Compile(globToRegex(p)); err == nil {
				out = append(out, pathMatcher{glob: re})
			}
		}
	}
	return out
}

// globToRegex converts a path glob to an anchored regex. "**" crosses
// directory separators, "*" and "?" do not. Globs without a slash match the
// base name anywhere in the tree.
func globToRegex(glob string) string {
	var b strings.Builder
	b.WriteString("^")
	r := []rune(glob)

	hasSlash := strings.ContainsRune(glob, '/')
	if !hasSlash {
		b.WriteString("(?:.*/)?")
	}

	for i := 0; i < len(r); i++ {
		switch r[i] {
		case '*':
			if i+1 < len(r) && r[i+1] == '*' {
				if i+2 < len(r) && r[i+2] == '/' {
					b.WriteString("(?:.*/)?")
					i += 2
					continue
				}
				b.WriteString(".*")
				i++
			} else {
				b.WriteString("[^/]*")
			}
		case '?':
			b.WriteString("[^/]")
		case '.', '+', '(', ')', '[', ']', '{', '}', '^', '$', '|', '\\':
			b.WriteString("\\")
			b.WriteRune(r[i])
		default:
			b.WriteRune(r[i])
		}
	}
	b.WriteString("$")
	return b.String()
}
