package apt

import (
	"runtime"
	"strings"

	"pault.ag/go/debian/version"
)

// goToDebianArch maps Go's GOARCH names to dpkg architecture names
var goToDebianArch = map[string]string{
	"amd64":    "amd64",
	"arm64":    "arm64",
	"386":      "i386",
	"arm":      "armhf",
	"ppc64le":  "ppc64el",
	"s390x":    "s390x",
	"riscv64":  "riscv64",
	"loong64":  "loong64",
	"mips64le": "mips64el",
}

// NativeArchitecture returns the dpkg architecture of the running binary
func NativeArchitecture() string {
	if arch, ok := goToDebianArch[runtime.GOARCH]; ok {
		return arch
	}
	return runtime.GOARCH
}

// CompareVersions compares two Debian version strings
// Returns: -1 if v1 < v2, 0 if v1 == v2, 1 if v1 > v2
// Strings that do not parse as Debian versions fall back to byte ordering.
func CompareVersions(v1, v2 string) int {
	parsed1, err1 := version.Parse(v1)
	parsed2, err2 := version.Parse(v2)
	if err1 != nil || err2 != nil {
		return strings.Compare(v1, v2)
	}

	cmp := version.Compare(parsed1, parsed2)
	switch {
	case cmp < 0:
		return -1
	case cmp > 0:
		return 1
	}
	return 0
}
