// Package engine wires the scan pipeline: rule set + file collector feed
// the matcher, matches are aggregated into findings, findings are scored.
// One pass per invocation, no state across runs.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/deepsweep-ai/deepsweep/internal/collect"
	"github.com/deepsweep-ai/deepsweep/internal/match"
	"github.com/deepsweep-ai/deepsweep/internal/model"
	"github.com/deepsweep-ai/deepsweep/internal/rules"
	"github.com/deepsweep-ai/deepsweep/internal/score"
)

// Options configures one run.
type Options struct {
	Root         string
	RulesDir     string
	Include      []string
	Exclude      []string
	MaxFileBytes int64
	Workers      int
}

// Run executes the full pipeline over opts.Root. It always produces a
// Result (possibly with zero findings and skip notes) unless the rule set
// itself cannot be loaded or the root cannot be walked.
func Run(ctx context.Context, opts Options) (model.Result, error) {
	started := time.Now()

	set, err := rules.Load(opts.RulesDir)
	if err != nil {
		return model.Result{}, err
	}

	files, skips, err := collect.Files(opts.Root, collect.Options{
		MaxFileBytes: opts.MaxFileBytes,
		Include:      opts.Include,
		Exclude:      opts.Exclude,
	})
	if err != nil {
		return model.Result{}, fmt.Errorf("collect %s: %w", opts.Root, err)
	}

	matches := match.All(ctx, files, set, opts.Workers)
	findings := Aggregate(matches)
	total := score.Score(findings)

	return model.Result{
		Findings:     findings,
		Score:        total,
		Grade:        score.GradeFor(total),
		FileCount:    len(files),
		PatternCount: set.Len(),
		DurationMS:   time.Since(started).Milliseconds(),
		Skips:        skips,
	}, nil
}
