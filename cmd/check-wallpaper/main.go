package main

import (
	"errors"
	"os"
	"time"

	"github.com/obentoo/check-wallpaper/internal/apt"
	"github.com/obentoo/check-wallpaper/internal/check"
	"github.com/obentoo/check-wallpaper/internal/common/logger"
	"github.com/obentoo/check-wallpaper/internal/common/output"
	"github.com/obentoo/check-wallpaper/internal/common/version"
	"github.com/obentoo/check-wallpaper/internal/notify"
	"github.com/spf13/cobra"
)

var (
	excludeFile string
	webhookURL  string
	logFile     string
	timeout     time.Duration
	listsDir    string
	statusFile  string
	arch        string
	verbose     bool
	quiet       bool
	noColor     bool
)

var rootCmd = &cobra.Command{
	Use:   "check-wallpaper",
	Short: "Check factory meta packages recommend a wallpaper",
	Long: `Scan the APT package cache for oem-stella-factory meta packages and report
every candidate version that does not recommend a wallpaper package.

Failures are logged and posted to a Mattermost incoming webhook.`,
	Version:       version.Short(),
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runCheck,
}

func init() {
	rootCmd.SetVersionTemplate(version.Info() + "\n")

	rootCmd.Flags().StringVar(&excludeFile, "exclude", "", "File with whitespace-separated packages to exclude")
	rootCmd.Flags().StringVar(&webhookURL, "mm_webhook", "", "Mattermost incoming webhook URL")
	rootCmd.Flags().StringVar(&logFile, "log-file", logger.DefaultLogFile, "Log file (appended)")
	rootCmd.Flags().DurationVar(&timeout, "timeout", notify.DefaultTimeout, "Webhook request timeout (0 disables)")
	rootCmd.Flags().StringVar(&listsDir, "lists-dir", apt.DefaultListsDir, "APT lists directory")
	rootCmd.Flags().StringVar(&statusFile, "status-file", apt.DefaultStatusFile, "dpkg status file")
	rootCmd.Flags().StringVar(&arch, "arch", apt.NativeArchitecture(), "Native dpkg architecture")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-error output")
	rootCmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")
}

func runCheck(cmd *cobra.Command, args []string) error {
	if noColor {
		output.NoColor()
	}

	log := logger.New(cmd.ErrOrStderr())
	log.SetVerbose(verbose)
	log.SetQuiet(quiet)
	if err := log.OpenFile(logFile); err != nil {
		return err
	}
	defer log.Close()

	if err := check.ValidateWebhookURL(webhookURL); err != nil {
		return logged(log, err)
	}

	cache, err := check.LoadCache(apt.Options{
		ListsDir:     listsDir,
		StatusFile:   statusFile,
		Architecture: arch,
	}, log)
	if err != nil {
		return logged(log, err)
	}

	checker := check.New(cache, notify.New(log, timeout), log)
	result, err := checker.Run(cmd.Context(), check.Options{
		ExcludeFile: excludeFile,
		WebhookURL:  webhookURL,
	})
	if !quiet {
		check.PrintSummary(result)
	}
	if err != nil {
		return logged(log, err)
	}

	return nil
}

// loggedError is an error the logger has already written to the terminal
type loggedError struct {
	err error
}

func (e *loggedError) Error() string { return e.err.Error() }
func (e *loggedError) Unwrap() error { return e.err }

// logged records err in the log file and on the terminal
func logged(log *logger.Logger, err error) error {
	log.Error("%v", err)
	return &loggedError{err: err}
}

// needsPrint reports whether main still has to show err, e.g. flag errors
func needsPrint(err error) bool {
	var le *loggedError
	return !errors.As(err, &le)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if needsPrint(err) {
			output.PrintError("%v", err)
		}
		os.Exit(1)
	}
}
