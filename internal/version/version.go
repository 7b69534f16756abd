// Package version carries build-time identity, overridden via ldflags:
//
//	-ldflags "-X github.com/deepsweep-ai/deepsweep/internal/version.Version=v1.2.3"
package version

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String returns the full human-readable version line.
func String() string {
	return "deepsweep " + Version + " (" + Commit + ", built " + Date + ")"
}
