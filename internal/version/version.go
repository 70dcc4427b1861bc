// Package version holds build metadata injected with -ldflags.
package version

import "fmt"

const AppName = "BillBot"

var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown"
)

// String returns the one-line build description printed by the version command.
func String() string {
	return fmt.Sprintf("%s version=%s commit=%s built=%s", AppName, Version, Commit, BuildTime)
}
