// Package version holds build metadata for the recs binary, stamped via
// -ldflags "-X github.com/moimlab/recs/internal/version.Version=...".
package version

//nolint:revive // Set at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)
