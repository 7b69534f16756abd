// Package score reduces a finding set to the 0-100 score and letter grade.
// Both functions are pure: same findings, same score, same grade, every run.
package score

import "github.com/deepsweep-ai/deepsweep/internal/model"

// Penalty returns the score deduction for one finding of the given
// severity. The switch is exhaustive over valid severities; anything else
// is a programming error upstream and deducts nothing.
func Penalty(s model.Severity) int {
	switch s {
	case model.SeverityCritical:
		return 25
	case model.SeverityHigh:
		return 15
	case model.SeverityMedium:
		return 5
	case model.SeverityLow:
		return 1
	default:
		return 0
	}
}

// Score computes max(0, 100 - Σ penalty). Each finding contributes exactly
// once; deduplication happened in the aggregator.
func Score(findings []model.Finding) int {
	total := 100
	for _, f := range findings {
		total -= Penalty(f.Severity)
	}
	if total < 0 {
		total = 0
	}
	return total
}

// GradeFor maps a score to its letter grade. Boundaries are inclusive on
// the lower bound: 90 is an A, 89 a B.
func GradeFor(score int) model.Grade {
	switch {
	case score >= 90:
		return model.GradeA
	case score >= 80:
		return model.GradeB
	case score >= 70:
		return model.GradeC
	case score >= 60:
		return model.GradeD
	default:
		return model.GradeF
	}
}
