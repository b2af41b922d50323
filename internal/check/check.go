// Package check runs one wallpaper audit end to end: exclude list, audit,
// and notification.
package check

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"

	"github.com/obentoo/check-wallpaper/internal/apt"
	"github.com/obentoo/check-wallpaper/internal/audit"
	"github.com/obentoo/check-wallpaper/internal/common/logger"
	"github.com/obentoo/check-wallpaper/internal/notify"
)

var (
	ErrWebhookNotConfigured = errors.New("failures found but no webhook is configured (use --mm_webhook)")
	ErrInvalidWebhookURL    = errors.New("invalid webhook URL")
)

// Options holds the per-run inputs
type Options struct {
	ExcludeFile string // optional; whitespace-separated package names
	WebhookURL  string // optional unless failures are found
}

// Result summarizes a run
type Result struct {
	MetaPackages int      // factory meta packages seen in the cache
	Excluded     []string // names loaded from the exclude file
	Failures     []string // meta packages reported as missing a wallpaper
	Notified     bool     // a report was posted to the webhook
}

// Checker wires the cache, auditor and notifier together
type Checker struct {
	cache    audit.PackageCache
	notifier *notify.Notifier
	log      *logger.Logger
}

// New creates a Checker
func New(cache audit.PackageCache, notifier *notify.Notifier, log *logger.Logger) *Checker {
	if log == nil {
		log = logger.Discard()
	}
	return &Checker{cache: cache, notifier: notifier, log: log}
}

// ValidateWebhookURL rejects URLs that cannot be posted to.
// An empty URL is valid: the webhook is only needed once failures exist.
func ValidateWebhookURL(raw string) error {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidWebhookURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: expected an absolute http(s) URL", ErrInvalidWebhookURL)
	}
	return nil
}

// LoadCache reads the APT cache and logs every index that had to be skipped
func LoadCache(opts apt.Options, log *logger.Logger) (*apt.Cache, error) {
	cache, err := apt.Load(opts)
	if err != nil {
		return nil, fmt.Errorf("loading package cache: %w", err)
	}
	for _, e := range cache.Errors {
		log.Warn("Skipping %s: %s", e.Path, e.Message)
	}
	log.Debug("Loaded %d packages from the APT cache", cache.Len())
	return cache, nil
}

// LoadExclude reads the exclude file. A missing file is logged and treated as
// an empty list; any other read error is returned.
func (c *Checker) LoadExclude(path string) ([]string, error) {
	if path == "" {
		return []string{}, nil
	}

	c.log.Info("Use %s as exclude file", path)
	names, err := audit.LoadExcludeList(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			c.log.Error("%s was not found.", path)
			return []string{}, nil
		}
		return nil, fmt.Errorf("reading exclude file: %w", err)
	}
	return names, nil
}

// Run performs one audit and posts a report when failures remain.
// HTTP error statuses from the webhook are logged by the notifier and do not
// fail the run. Fatal conditions (invalid or missing webhook, unreachable
// webhook, unreadable exclude file) are returned unlogged for the caller.
func (c *Checker) Run(ctx context.Context, opts Options) (*Result, error) {
	if err := ValidateWebhookURL(opts.WebhookURL); err != nil {
		return nil, err
	}

	exclude, err := c.LoadExclude(opts.ExcludeFile)
	if err != nil {
		return nil, err
	}

	auditor := audit.New(c.cache, c.log)
	result := &Result{
		MetaPackages: len(auditor.MetaPackages()),
		Excluded:     exclude,
		Failures:     auditor.Audit(exclude),
	}

	if len(result.Failures) == 0 {
		return result, nil
	}

	if opts.WebhookURL == "" {
		return result, ErrWebhookNotConfigured
	}

	if err := c.notifier.Notify(ctx, opts.WebhookURL, notify.FormatMessage(result.Failures)); err != nil {
		return result, err
	}
	result.Notified = true

	return result, nil
}
