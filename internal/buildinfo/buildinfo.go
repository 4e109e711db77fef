// Package buildinfo holds version information injected at build time via ldflags:
//
//	-X github.com/sunshinebar/sunshinebar/internal/buildinfo.Version=1.2.0
package buildinfo

import "fmt"

var (
	Version    = "dev"
	Codename   = "unknown"
	CommitHash = "unknown"
	BuildDate  = "unknown"
)

// Summary returns the version with its commit and build date.
func Summary() string {
	return fmt.Sprintf("%s (%s, built %s)", Version, CommitHash, BuildDate)
}
