package check

import (
	"github.com/obentoo/check-wallpaper/internal/common/output"
)

// PrintSummary prints the run result to the terminal
func PrintSummary(result *Result) {
	if result == nil {
		return
	}

	if len(result.Excluded) > 0 {
		output.PrintInfo("%d package(s) excluded", len(result.Excluded))
	}

	if len(result.Failures) == 0 {
		output.PrintSuccess("%d factory meta package(s) checked, all recommend wallpaper", result.MetaPackages)
		return
	}

	output.PrintWarning("%d of %d factory meta package(s) do not recommend wallpaper:",
		len(result.Failures), result.MetaPackages)
	output.List(result.Failures)
	if result.Notified {
		output.PrintInfo("Report sent to webhook")
	}
}
