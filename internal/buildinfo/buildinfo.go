// Package buildinfo carries version metadata stamped at link time with
// -ldflags "-X github.com/aalvaropc/xferbot/internal/buildinfo.Version=...".
package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func String() string {
	return fmt.Sprintf("xferbot %s (commit=%s, date=%s)", Version, Commit, Date)
}
