// Package telemetry emits anonymous usage events for completed scans.
// Events carry aggregate counters only. File paths, matched excerpts, and
// rule contents never enter an event, so opting in can never leak scanned
// content.
package telemetry

import (
	"crypto/rand"
	"encoding/hex"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/deepsweep-ai/deepsweep/internal/config"
	"github.com/deepsweep-ai/deepsweep/internal/model"
	"github.com/deepsweep-ai/deepsweep/internal/safefile"
	"github.com/deepsweep-ai/deepsweep/internal/version"
)

type EventType string

const (
	EventScanCompleted EventType = "scan_completed"
)

// Event is one telemetry record. Counters only.
type Event struct {
	Type           EventType `json:"type"`
	At             time.Time `json:"at"`
	InstallationID string    `json:"installation_id,omitempty"`
	Version        string    `json:"version,omitempty"`
	Format         string    `json:"format,omitempty"`
	FileCount      int       `json:"file_count,omitempty"`
	PatternCount   int       `json:"pattern_count,omitempty"`
	FindingCount   int       `json:"finding_count,omitempty"`
	CriticalCount  int       `json:"critical_count,omitempty"`
	HighCount      int       `json:"high_count,omitempty"`
	MediumCount    int       `json:"medium_count,omitempty"`
	LowCount       int       `json:"low_count,omitempty"`
	Score          int       `json:"score,omitempty"`
	Grade          string    `json:"grade,omitempty"`
	DurationMS     int64     `json:"duration_ms,omitempty"`
}

// Sink receives telemetry events. Implementations must not block the scan.
type Sink interface {
	Emit(Event)
}

type SinkFunc func(Event)

func (f SinkFunc) Emit(e Event) {
	f(e)
}

type NoopSink struct{}

func (NoopSink) Emit(Event) {}

// ScanCompleted builds the event for a finished scan from result counters.
func ScanCompleted(result model.Result, format string) Event {
	counts := result.CountBySeverity()
	return Event{
		Type:           EventScanCompleted,
		At:             time.Now().UTC(),
		InstallationID: InstallationID(),
		Version:        version.Version,
		Format:         format,
		FileCount:      result.FileCount,
		PatternCount:   result.PatternCount,
		FindingCount:   len(result.Findings),
		CriticalCount:  counts[model.SeverityCritical],
		HighCount:      counts[model.SeverityHigh],
		MediumCount:    counts[model.SeverityMedium],
		LowCount:       counts[model.SeverityLow],
		Score:          result.Score,
		Grade:          string(result.Grade),
		DurationMS:     result.DurationMS,
	}
}

// Enabled reports whether telemetry should be emitted. Precedence:
// DEEPSWEEP_TELEMETRY env, then config, then default-on. CI environments
// are always off regardless.
func Enabled(cfg config.Config) bool {
	if inCI() {
		return false
	}
	if raw := os.Getenv("DEEPSWEEP_TELEMETRY"); raw != "" {
		if v, err := strconv.ParseBool(strings.TrimSpace(raw)); err == nil {
			return v
		}
		return false
	}
	if cfg.Telemetry != nil {
		return *cfg.Telemetry
	}
	return true
}

func inCI() bool {
	for _, key := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "BUILDKITE"} {
		if os.Getenv(key) != "" {
			return true
		}
	}
	return false
}

// InstallationID returns a stable anonymous identifier persisted alongside
// the global config. Returns "" when the home directory is unavailable;
// events still emit, just unattributed.
func InstallationID() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	path := filepath.Join(home, ".config", "deepsweep", "installation_id")

	if data, err := os.ReadFile(path); err == nil {
		id := strings.TrimSpace(string(data))
		if id != "" {
			return id
		}
	}

	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return ""
	}
	id := hex.EncodeToString(buf)

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return id
	}
	_ = safefile.WriteFileAtomic(path, []byte(id+"\n"), 0o600)
	return id
}
