// Package version carries the check-wallpaper build stamp shown by --version.
//
// Release builds set the variables with the linker:
//
//	go build -ldflags "-X github.com/obentoo/check-wallpaper/internal/common/version.Version=1.2.0 \
//	  -X github.com/obentoo/check-wallpaper/internal/common/version.Commit=$(git rev-parse --short HEAD) \
//	  -X github.com/obentoo/check-wallpaper/internal/common/version.BuildDate=$(date -u +%Y-%m-%d)" \
//	  ./cmd/check-wallpaper
package version

import (
	"fmt"
	"runtime"
)

// Stamped by -ldflags; a plain `go build` leaves the development values.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// Info is the multi-line block printed for check-wallpaper --version
func Info() string {
	return fmt.Sprintf("check-wallpaper %s (commit %s, built %s)\n  %s %s/%s",
		Version, Commit, BuildDate, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// Short is the bare release number used as cobra's Version field
func Short() string {
	return Version
}
