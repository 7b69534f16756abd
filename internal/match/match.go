// Package match evaluates compiled rules against candidate file contents.
// Matching is purely local per file: no cross-file state, which is what
// makes the per-file worker pool safe.
package match

import (
	"context"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/deepsweep-ai/deepsweep/internal/collect"
	"github.com/deepsweep-ai/deepsweep/internal/model"
	"github.com/deepsweep-ai/deepsweep/internal/redact"
	"github.com/deepsweep-ai/deepsweep/internal/rules"
)

// maxExcerptLen bounds the snippet carried on a match; the full file is
// never carried.
const maxExcerptLen = 200

// RawMatch is one located rule hit before aggregation. Rule metadata is
// carried along so the aggregator never needs the rule set.
type RawMatch struct {
	RuleID      string
	Severity    model.Severity
	FilePath    string
	LineNumber  int
	Excerpt     string
	Remediation string
	References  []string
}

// File evaluates every applicable rule against one candidate. A pattern may
// hit multiple times; overlapping hits of the same rule on the same line
// collapse to one RawMatch so repeated tokens on a line cannot inflate the
// score. Hits of different rules on the same line do not collapse.
func File(file collect.File, applicable []*rules.Rule) []RawMatch {
	if len(applicable) == 0 || file.Content == "" {
		return nil
	}

	lines := newLineIndex(file.Content)
	var out []RawMatch
	for _, rule := range applicable {
		locs := rule.Regexp().FindAllStringIndex(file.Content, -1)
		if len(locs) == 0 {
			continue
		}
		seenLine := make(map[int]struct{}, len(locs))
		for _, loc := range locs {
			line := lines.lineFor(loc[0])
			if _, dup := seenLine[line]; dup {
				continue
			}
			seenLine[line] = struct{}{}
			out = append(out, RawMatch{
				RuleID:      rule.ID,
				Severity:    rule.Severity,
				FilePath:    file.Path,
				LineNumber:  line,
				Excerpt:     excerpt(file.Content, lines, line),
				Remediation: rule.Remediation,
				References:  rule.References,
			})
		}
	}
	return out
}

// All runs the matcher over every candidate with a fixed worker pool and
// merges per-file results back in file order, so output is independent of
// scheduling. The rule set is read-only and shared without locking.
func All(ctx context.Context, files []collect.File, set *rules.Set, workers int) []RawMatch {
	if len(files) == 0 {
		return nil
	}
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(files) {
		workers = len(files)
	}

	perFile := make([][]RawMatch, len(files))
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for idx := range files {
		// A short run cancels by not starting the next file, never by
		// interrupting an in-flight match.
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			perFile[idx] = File(files[idx], set.RulesFor(files[idx].Path))
		}(idx)
	}
	wg.Wait()

	var merged []RawMatch
	for _, ms := range perFile {
		merged = append(merged, ms...)
	}
	return merged
}

// lineIndex maps byte offsets to 1-based line numbers by recording the
// offset of every newline once per file.
type lineIndex struct {
	newlines []int
	length   int
}

func newLineIndex(content string) lineIndex {
	var nl []int
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			nl = append(nl, i)
		}
	}
	return lineIndex{newlines: nl, length: len(content)}
}

// lineFor returns the 1-based line containing the byte offset.
func (ix lineIndex) lineFor(offset int) int {
	return sort.SearchInts(ix.newlines, offset) + 1
}

// lineBounds returns the [start, end) byte range of a 1-based line,
// excluding the trailing newline.
func (ix lineIndex) lineBounds(line int) (int, int) {
	start := 0
	if line > 1 && line-2 < len(ix.newlines) {
		start = ix.newlines[line-2] + 1
	}
	end := ix.length
	if line-1 < len(ix.newlines) {
		end = ix.newlines[line-1]
	}
	return start, end
}

// excerpt returns the matched line's text, trimmed, secret-masked, and
// bounded to maxExcerptLen.
func excerpt(content string, lines lineIndex, line int) string {
	start, end := lines.lineBounds(line)
	if start > end || start < 0 || end > len(content) {
		return ""
	}
	text := strings.TrimSpace(content[start:end])
	text = strings.ReplaceAll(text, "\r", "")
	text = strings.ReplaceAll(text, "\t", " ")
	if len(text) > maxExcerptLen {
		text = text[:maxExcerptLen] + "..."
	}
	return redact.Text(text)
}
