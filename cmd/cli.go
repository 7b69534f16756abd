// Package cmd is the deepsweep command-line shell. It owns flag parsing,
// config layering, and the exit-code policy; the engine itself never decides
// process exit status.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/deepsweep-ai/deepsweep/internal/badge"
	"github.com/deepsweep-ai/deepsweep/internal/config"
	"github.com/deepsweep-ai/deepsweep/internal/engine"
	"github.com/deepsweep-ai/deepsweep/internal/model"
	"github.com/deepsweep-ai/deepsweep/internal/report"
	"github.com/deepsweep-ai/deepsweep/internal/safefile"
	"github.com/deepsweep-ai/deepsweep/internal/telemetry"
	"github.com/deepsweep-ai/deepsweep/internal/version"
)

// ErrFindingsAboveThreshold signals that the scan succeeded but found
// issues at or above the --fail-on severity. main maps it to exit code 1;
// every other error exits 2.
var ErrFindingsAboveThreshold = errors.New("findings at or above fail-on threshold")

// TelemetrySink receives scan-completed events. The default is a no-op;
// a transport can be installed at build time.
var TelemetrySink telemetry.Sink = telemetry.NoopSink{}

func Execute(args []string) error {
	if len(args) == 0 {
		return usageError("missing command")
	}

	switch args[0] {
	case "scan":
		return runScan(args[1:])
	case "badge":
		return runBadge(args[1:])
	case "config":
		return runConfig(args[1:])
	case "version", "--version":
		fmt.Println(version.String())
		return nil
	case "help", "--help", "-h":
		printUsage()
		return nil
	default:
		return usageError(fmt.Sprintf("unknown command %q", args[0]))
	}
}

func runScan(args []string) error {
	fs := flag.NewFlagSet("scan", flag.ContinueOnError)
	fs.SetOutput(flag.CommandLine.Output())

	format := fs.String("format", "text", "Output format: text|json|sarif")
	output := fs.String("o", "", "Write the report to a file instead of stdout")
	failOn := fs.String("fail-on", "low", "Exit nonzero for findings at or above this severity: critical|high|medium|low")
	rulesDir := fs.String("rules-dir", "", "Directory of custom rule YAML files")
	workers := fs.Int("workers", 0, "Matcher concurrency (default GOMAXPROCS)")
	maxFileBytes := fs.Int64("max-file-bytes", 0, "Per-file size cap in bytes (default 2097152)")
	noColor := fs.Bool("no-color", false, "Disable colored output")
	quiet := fs.Bool("quiet", false, "Print nothing when the scan is clean")
	verbose := fs.Bool("verbose", false, "Diagnostic details on stderr")

	var include listFlag
	var exclude listFlag
	fs.Var(&include, "include", "Additional file glob(s) to scan (repeatable or comma-separated)")
	fs.Var(&exclude, "exclude", "File glob(s) to skip (repeatable or comma-separated)")

	root, err := parseWithRoot(fs, args, "usage: deepsweep scan [path] [flags]")
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	set := setFlags(fs)

	opts := engine.Options{
		Root:         root,
		RulesDir:     *rulesDir,
		Include:      include.Values(),
		Exclude:      exclude.Values(),
		MaxFileBytes: *maxFileBytes,
		Workers:      *workers,
	}
	if opts.RulesDir == "" {
		opts.RulesDir = cfg.RulesDir
	}
	if !set["workers"] && cfg.Workers != nil {
		opts.Workers = *cfg.Workers
	}
	if !set["max-file-bytes"] && cfg.MaxFileBytes != nil {
		opts.MaxFileBytes = *cfg.MaxFileBytes
	}
	if len(opts.Include) == 0 {
		opts.Include = cfg.Include
	}
	if len(opts.Exclude) == 0 {
		opts.Exclude = cfg.Exclude
	}
	if opts.Workers < 0 {
		return errors.New("--workers must be >= 0")
	}
	if opts.MaxFileBytes < 0 {
		return errors.New("--max-file-bytes must be >= 0")
	}

	formatValue := *format
	if !set["format"] && cfg.Format != "" {
		formatValue = cfg.Format
	}
	outFormat, err := report.ParseFormat(formatValue)
	if err != nil {
		return err
	}

	failOnValue := *failOn
	if !set["fail-on"] && cfg.FailOn != "" {
		failOnValue = cfg.FailOn
	}
	threshold, err := model.ParseSeverity(failOnValue)
	if err != nil {
		return fmt.Errorf("--fail-on: %w", err)
	}

	outputPath := *output
	if !set["o"] && cfg.Output != "" {
		outputPath = cfg.Output
	}

	result, err := engine.Run(context.Background(), opts)
	if err != nil {
		return err
	}

	if *verbose {
		fmt.Fprintf(os.Stderr, "[deepsweep] scanned %d file(s) against %d pattern(s) in %dms\n",
			result.FileCount, result.PatternCount, result.DurationMS)
		for _, s := range result.Skips {
			fmt.Fprintf(os.Stderr, "[deepsweep] skipped %s (%s)\n", s.Path, s.Reason)
		}
	}

	if telemetry.Enabled(cfg) {
		TelemetrySink.Emit(telemetry.ScanCompleted(result, string(outFormat)))
	}

	color := useColor(*noColor, cfg, outputPath != "")
	body, err := report.Render(result, outFormat, color)
	if err != nil {
		return err
	}

	if outputPath != "" {
		if err := safefile.WriteFileAtomic(outputPath, []byte(body), 0o600); err != nil {
			return err
		}
	} else if !*quiet || len(result.Findings) > 0 {
		fmt.Print(body)
	}

	for _, f := range result.Findings {
		if f.Severity.Rank() <= threshold.Rank() {
			return ErrFindingsAboveThreshold
		}
	}
	return nil
}

func runBadge(args []string) error {
	fs := flag.NewFlagSet("badge", flag.ContinueOnError)
	fs.SetOutput(flag.CommandLine.Output())

	format := fs.String("format", "svg", "Badge format: svg|json")
	output := fs.String("o", "", "Write the badge to a file instead of stdout")
	label := fs.String("label", "", "Badge label (default deepsweep)")
	style := fs.String("style", "", "SVG badge style: flat|flat-square")
	rulesDir := fs.String("rules-dir", "", "Directory of custom rule YAML files")

	root, err := parseWithRoot(fs, args, "usage: deepsweep badge [path] [flags]")
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	labelValue := *label
	if labelValue == "" {
		labelValue = cfg.BadgeLabel
	}
	if labelValue == "" {
		labelValue = "deepsweep"
	}
	styleValue := *style
	if styleValue == "" {
		styleValue = cfg.BadgeStyle
	}
	customDir := *rulesDir
	if customDir == "" {
		customDir = cfg.RulesDir
	}

	result, err := engine.Run(context.Background(), engine.Options{Root: root, RulesDir: customDir})
	if err != nil {
		return err
	}

	var body string
	switch strings.ToLower(strings.TrimSpace(*format)) {
	case "svg":
		body = badge.RenderSVG(labelValue, result, badge.ParseStyle(styleValue))
	case "json":
		body = badge.ShieldsJSON(labelValue, result)
	default:
		return fmt.Errorf("unknown badge format %q (want svg or json)", *format)
	}

	if *output != "" {
		return safefile.WriteFileAtomic(*output, []byte(body+"\n"), 0o600)
	}
	fmt.Println(body)
	return nil
}

func runConfig(args []string) error {
	if len(args) == 0 {
		return usageError("usage: deepsweep config <get|set|path> [args]")
	}
	switch args[0] {
	case "get":
		if len(args) != 2 {
			return usageError("usage: deepsweep config get <key>")
		}
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		value, err := config.Get(cfg, args[1])
		if err != nil {
			return err
		}
		fmt.Println(value)
		return nil
	case "set":
		if len(args) != 3 {
			return usageError("usage: deepsweep config set <key> <value>")
		}
		return config.Set(args[1], args[2])
	case "path":
		fmt.Println(config.GlobalPath())
		return nil
	default:
		return usageError(fmt.Sprintf("unknown config subcommand %q", args[0]))
	}
}

// parseWithRoot parses flags with one optional positional path, which may
// appear before or after the flags. Defaults to the current directory.
func parseWithRoot(fs *flag.FlagSet, args []string, usage string) (string, error) {
	var root string
	parseArgs := args
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		root = args[0]
		parseArgs = args[1:]
	}

	if err := fs.Parse(parseArgs); err != nil {
		return "", err
	}
	remaining := fs.Args()
	switch {
	case root == "" && len(remaining) == 1:
		root = remaining[0]
	case root == "" && len(remaining) == 0:
		root = "."
	case root != "" && len(remaining) == 0:
		// valid
	default:
		return "", usageError(usage)
	}
	return root, nil
}

// setFlags reports which flags were passed explicitly, so config values
// only fill in what the user left unset.
func setFlags(fs *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})
	return set
}

func useColor(noColorFlag bool, cfg config.Config, toFile bool) bool {
	if noColorFlag || toFile {
		return false
	}
	if cfg.NoColor != nil && *cfg.NoColor {
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd())
}

func usageError(msg string) error {
	printUsage()
	return errors.New(msg)
}

func printUsage() {
	fmt.Println("deepsweep - security scanner for AI assistant configuration files")
	fmt.Println("")
	fmt.Println("Usage:")
	fmt.Println("  deepsweep scan [path] [flags]")
	fmt.Println("  deepsweep badge [path] [flags]")
	fmt.Println("  deepsweep config <get|set|path> [args]")
	fmt.Println("  deepsweep version")
	fmt.Println("")
	fmt.Println("Flags (scan):")
	fmt.Println("  --format <text|json|sarif>  Output format (default text)")
	fmt.Println("  -o <file>                   Write the report to a file")
	fmt.Println("  --fail-on <severity>        Exit 1 for findings at or above severity (default low)")
	fmt.Println("  --rules-dir <dir>           Custom rule YAML directory")
	fmt.Println("  --include <glob>            Additional file glob(s) to scan (repeatable)")
	fmt.Println("  --exclude <glob>            File glob(s) to skip (repeatable)")
	fmt.Println("  --workers <n>               Matcher concurrency (default GOMAXPROCS)")
	fmt.Println("  --max-file-bytes <n>        Per-file size cap (default 2097152)")
	fmt.Println("  --no-color                  Disable colored output")
	fmt.Println("  --quiet                     Print nothing when the scan is clean")
	fmt.Println("  --verbose                   Diagnostic details on stderr")
	fmt.Println("")
	fmt.Println("Flags (badge):")
	fmt.Println("  --format <svg|json>         Badge format (default svg)")
	fmt.Println("  --label <text>              Badge label (default deepsweep)")
	fmt.Println("  --style <flat|flat-square>  SVG style (default flat)")
	fmt.Println("  -o <file>                   Write the badge to a file")
}

type listFlag struct {
	values []string
}

func (f *listFlag) String() string {
	if f == nil {
		return ""
	}
	return strings.Join(f.values, ",")
}

func (f *listFlag) Set(value string) error {
	parts := strings.Split(value, ",")
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			f.values = append(f.values, part)
		}
	}
	return nil
}

func (f *listFlag) Values() []string {
	if f == nil || len(f.values) == 0 {
		return nil
	}
	out := make([]string, 0, len(f.values))
	for _, v := range f.values {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
