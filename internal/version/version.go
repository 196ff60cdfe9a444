// Package version carries build information injected with -ldflags, e.g.
//
//	go build -ldflags "-X github.com/MrSnakeDoc/folio/internal/version.Version=v0.1.0"
package version

import (
	"fmt"
	"runtime"
	"time"
)

var (
	Version   = "dev"                           // ex: v0.1.0
	Commit    = "none"                          // ex: abcd123
	BuildDate = time.Now().Format(time.RFC3339) // ex: 2025-08-11T18:42:00Z
	GoVersion = runtime.Version()               // go version
)

// String renders the build line printed by `folio version` and at startup.
func String() string {
	return fmt.Sprintf("folio %s (commit=%s, built=%s, go=%s)", Version, Commit, BuildDate, GoVersion)
}
