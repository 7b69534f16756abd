// Package collect walks a scan root and produces the candidate files the
// matcher will evaluate. Selection is a closed allow-list of known AI
// assistant configuration surfaces: unknown files are never read, which
// bounds both false positives and wall-clock time.
package collect

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/deepsweep-ai/deepsweep/internal/model"
)

// MaxFileBytes is the default size ceiling. Configuration files larger than
// this are treated as misconfiguration, skipped with a note.
const MaxFileBytes = 2 * 1024 * 1024

// File is one candidate for matching. Path is slash-separated and relative
// to the scan root; Content is the decoded text. Candidates live for one run
// and are never persisted.
type File struct {
	Path    string
	Content string
}

// Options tunes a collection pass. Include/Exclude are gitignore-style globs
// layered on top of the built-in allow-list: Include adds surfaces, Exclude
// removes them.
type Options struct {
	MaxFileBytes int64
	Include      []string
	Exclude      []string
}

// Directories that provide no scan value and dominate walk time.
var skipDirNames = map[string]struct{}{
	".git": {}, "node_modules": {}, "vendor": {}, "dist": {}, "build": {},
	"target": {}, "coverage": {}, ".next": {}, "__pycache__": {}, ".venv": {}, "venv": {},
}

// Exact file names that are always candidates.
var candidateNames = map[string]struct{}{
	".cursorrules":               {},
	".windsurfrules":             {},
	".clinerules":                {},
	"CLAUDE.md":                  {},
	"AGENTS.md":                  {},
	"GEMINI.md":                  {},
	"copilot-instructions.md":    {},
	"mcp.json":                   {},
	"mcp-config.json":            {},
	"claude_desktop_config.json": {},
	"package.json":               {},
	"extension.json":             {},
	"pip.conf":                   {},
	".npmrc":                     {},
}

// Suffixes that make any file name a candidate.
var candidateSuffixes = []string{".mcp.json", ".mcp.yaml", ".mcp.yml", ".sh"}

// Base-name prefixes that make a file a candidate (".aider*", ".claude*").
var candidatePrefixes = []string{".aider", ".claude"}

// Directory components whose files are all candidates.
var candidateDirs = []string{".cursor/rules", ".claude", ".amazonq", ".continue"}

// Files returns the candidate files under root in path order, plus skip
// notes for anything passed over. Per-file problems (oversize, binary,
// unreadable) degrade to skip notes; only a failure to walk the root itself
// is an error.
func Files(root string, opts Options) ([]File, []model.SkipNote, error) {
	if opts.MaxFileBytes <= 0 {
		opts.MaxFileBytes = MaxFileBytes
	}
	include := compileGlobs(opts.Include)
	exclude := compileGlobs(opts.Exclude)

	var files []File
	var skips []model.SkipNote

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			// One unreadable entry must not prevent reporting on the rest
			// of the tree.
			rel := relSlash(root, path)
			skips = append(skips, model.SkipNote{Path: rel, Reason: model.SkipReasonUnreadable})
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if path == root {
			return nil
		}

		rel := relSlash(root, path)
		name := d.Name()

		if d.IsDir() {
			if _, skip := skipDirNames[name]; skip {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		if matchAny(exclude, rel) {
			return nil
		}
		if !isCandidate(rel, name) && !matchAny(include, rel) {
			return nil
		}

		info, infoErr := d.Info()
		if infoErr != nil {
			skips = append(skips, model.SkipNote{Path: rel, Reason: model.SkipReasonUnreadable})
			return nil
		}
		if info.Size() > opts.MaxFileBytes {
			skips = append(skips, model.SkipNote{Path: rel, Reason: model.SkipReasonTooLarge})
			return nil
		}

		data, readErr := os.ReadFile(path)
		if readErr != nil {
			skips = append(skips, model.SkipNote{Path: rel, Reason: model.SkipReasonUnreadable})
			return nil
		}
		if isBinary(data) {
			skips = append(skips, model.SkipNote{Path: rel, Reason: model.SkipReasonBinary})
			return nil
		}

		files = append(files, File{Path: rel, Content: string(data)})
		return nil
	})
	if walkErr != nil {
		return nil, nil, walkErr
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, skips, nil
}

func isCandidate(rel string, name string) bool {
	if _, ok := candidateNames[name]; ok {
		return true
	}
	for _, suffix := range candidateSuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	for _, prefix := range candidatePrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	dir := filepath.ToSlash(filepath.Dir(rel))
	for _, cd := range candidateDirs {
		if dir == cd || strings.HasPrefix(dir, cd+"/") || strings.HasSuffix(dir, "/"+cd) || strings.Contains(dir, "/"+cd+"/") {
			return true
		}
	}
	return false
}

// isBinary reports whether content is not scannable text: binary content
// cannot contain textual injection strings.
func isBinary(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	probe := data
	if len(probe) > 8192 {
		probe = probe[:8192]
	}
	if bytes.IndexByte(probe, 0) >= 0 {
		return true
	}
	return !utf8.Valid(data)
}

func relSlash(root string, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

func compileGlobs(globs []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(globs))
	for _, g := range globs {
		g = strings.TrimSpace(g)
		if g == "" {
			continue
		}
		if re, err := regexp.Compile(globToRegex(g)); err == nil {
			out = append(out, re)
		}
	}
	return out
}

func matchAny(res []*regexp.Regexp, rel string) bool {
	for _, re := range res {
		if re.MatchString(rel) {
			return true
		}
	}
	return false
}

// globToRegex converts a gitignore-style glob to an anchored regex. Patterns
// without a slash match the base name anywhere in the tree.
func globToRegex(glob string) string {
	var b strings.Builder
	b.WriteString("^")
	r := []rune(filepath.ToSlash(glob))

	if !strings.ContainsRune(glob, '/') {
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
