// Package report renders a scan result in one of the supported output
// formats. Rendering is presentation only: findings arrive already
// deduplicated, scored, and deterministically ordered.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/deepsweep-ai/deepsweep/internal/model"
)

// Format selects the output renderer.
type Format string

const (
	FormatText  Format = "text"
	FormatJSON  Format = "json"
	FormatSARIF Format = "sarif"
)

// ErrUnsupportedFormat is returned for a format string outside the
// supported set.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// ParseFormat validates a user-supplied format string.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatSARIF:
		return FormatSARIF, nil
	default:
		return "", fmt.Errorf("%w: %q (want text, json, or sarif)", ErrUnsupportedFormat, s)
	}
}

// Render produces the report body for the given format. color only affects
// the text renderer.
func Render(result model.Result, format Format, color bool) (string, error) {
	switch format {
	case FormatText:
		return renderText(result, color), nil
	case FormatJSON:
		return renderJSON(result)
	case FormatSARIF:
		return renderSARIF(result)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// renderJSON emits the machine-readable contract. A run with no findings
// serializes findings as an empty array, never null.
func renderJSON(result model.Result) (string, error) {
	if result.Findings == nil {
		result.Findings = []model.Finding{}
	}
	b, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal result: %w", err)
	}
	return string(b) + "\n", nil
}

// Lipgloss styles for each severity label.
var (
	styleCritical = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("9"))
	styleHigh     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	styleMedium   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	styleLow      = lipgloss.NewStyle().Faint(true)
	styleFile     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	styleRemedy   = lipgloss.NewStyle().Faint(true)
	styleGoodTo70 = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	styleWarnTo60 = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	styleBad      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
)

func styleSeverity(sev model.Severity, color bool) string {
	label := string(sev)
	if !color {
		return label
	}
	switch sev {
	case model.SeverityCritical:
		return styleCritical.Render(label)
	case model.SeverityHigh:
		return styleHigh.Render(label)
	case model.SeverityMedium:
		return styleMedium.Render(label)
	case model.SeverityLow:
		return styleLow.Render(label)
	default:
		return label
	}
}

func styleScore(result model.Result, color bool) string {
	label := fmt.Sprintf("%d/100 (grade %s)", result.Score, result.Grade)
	if !color {
		return label
	}
	switch {
	case result.Score >= 70:
		return styleGoodTo70.Render(label)
	case result.Score >= 60:
		return styleWarnTo60.Render(label)
	default:
		return styleBad.Render(label)
	}
}

// renderText produces the human-readable report: findings grouped by file,
// files in path order, then a summary block.
func renderText(result model.Result, color bool) string {
	var b strings.Builder

	if len(result.Findings) == 0 {
		b.WriteString("No findings.\n\n")
	} else {
		byFile := make(map[string][]model.Finding)
		var paths []string
		for _, f := range result.Findings {
			if _, seen := byFile[f.FilePath]; !seen {
				paths = append(paths, f.FilePath)
			}
			byFile[f.FilePath] = append(byFile[f.FilePath], f)
		}
		sort.Strings(paths)

		for _, path := range paths {
			group := byFile[path]
			sort.SliceStable(group, func(i, j int) bool {
				if group[i].LineNumber != group[j].LineNumber {
					return group[i].LineNumber < group[j].LineNumber
				}
				return group[i].RuleID < group[j].RuleID
			})

			fileLabel := path
			if color {
				fileLabel = styleFile.Render(path)
			}
			b.WriteString(fileLabel + "\n")
			for _, f := range group {
				b.WriteString(fmt.Sprintf("  %s  %s (line %d)\n", styleSeverity(f.Severity, color), f.RuleID, f.LineNumber))
				if f.MatchedExcerpt != "" {
					b.WriteString(fmt.Sprintf("    %s\n", f.MatchedExcerpt))
				}
				if f.Remediation != "" {
					rem := "fix: " + f.Remediation
					if color {
						rem = styleRemedy.Render(rem)
					}
					b.WriteString("    " + rem + "\n")
				}
			}
			b.WriteString("\n")
		}
	}

	counts := result.CountBySeverity()
	var parts []string
	for _, sev := range model.Severities {
		if c := counts[sev]; c > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", c, strings.ToLower(string(sev))))
		}
	}
	if len(parts) == 0 {
		parts = append(parts, "none")
	}

	b.WriteString(fmt.Sprintf("Score:    %s\n", styleScore(result, color)))
	b.WriteString(fmt.Sprintf("Findings: %d (%s)\n", len(result.Findings), strings.Join(parts, ", ")))
	b.WriteString(fmt.Sprintf("Scanned:  %d file(s) against %d pattern(s) in %dms\n", result.FileCount, result.PatternCount, result.DurationMS))

	if len(result.Skips) > 0 {
		b.WriteString(fmt.Sprintf("Skipped:  %d file(s)\n", len(result.Skips)))
		for _, s := range result.Skips {
			b.WriteString(fmt.Sprintf("  %s (%s)\n", s.Path, s.Reason))
		}
	}

	return b.String()
}
