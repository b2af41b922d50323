// Package audit checks factory meta packages for a wallpaper recommendation.
package audit

import (
	"strings"

	"github.com/obentoo/check-wallpaper/internal/apt"
	"github.com/obentoo/check-wallpaper/internal/common/logger"
)

const (
	// FactoryPattern selects the factory meta packages by name
	FactoryPattern = "oem-stella-factory"
	// WallpaperKeyword is what a recommendation must contain to count
	WallpaperKeyword = "wallpaper"
)

// PackageCache is the read-only package database the auditor queries
type PackageCache interface {
	// Names returns every package name known to the cache
	Names() []string
	// Candidate returns the version that would be installed, if any
	Candidate(name string) (*apt.Version, bool)
}

// MatchPolicy decides whether a single raw Recommends declaration counts as a
// wallpaper recommendation
type MatchPolicy func(declaration string) bool

// SubstringRecommendationMatch accepts any declaration containing "wallpaper",
// case-sensitive, anywhere in the raw text. "foo | wallpaper-x (>= 1)" and
// "nowallpaper" both match. Do not tighten this to package-name equality.
func SubstringRecommendationMatch(declaration string) bool {
	return strings.Contains(declaration, WallpaperKeyword)
}

// Auditor finds factory meta packages that do not recommend a wallpaper
type Auditor struct {
	cache   PackageCache
	log     *logger.Logger
	pattern string
	match   MatchPolicy
}

// New creates an Auditor using FactoryPattern and SubstringRecommendationMatch
func New(cache PackageCache, log *logger.Logger) *Auditor {
	if log == nil {
		log = logger.Discard()
	}
	return &Auditor{
		cache:   cache,
		log:     log,
		pattern: FactoryPattern,
		match:   SubstringRecommendationMatch,
	}
}

// MetaPackages returns the cache names containing the factory pattern, in
// cache order
func (a *Auditor) MetaPackages() []string {
	var metas []string
	for _, name := range a.cache.Names() {
		if strings.Contains(name, a.pattern) {
			metas = append(metas, name)
		}
	}
	return metas
}

// RecommendsWallpaper reports whether any recommendation satisfies the policy
func (a *Auditor) RecommendsWallpaper(v *apt.Version) bool {
	for _, decl := range v.Recommends {
		if a.match(decl) {
			return true
		}
	}
	return false
}

// Audit returns the meta packages whose candidate has no wallpaper
// recommendation and that are not listed in exclude. Packages without a
// candidate are skipped. Order follows the cache and is not guaranteed.
func (a *Auditor) Audit(exclude []string) []string {
	a.log.Info("Start checking wallpaper")

	excluded := make(map[string]bool, len(exclude))
	for _, name := range exclude {
		excluded[name] = true
	}

	failed := []string{}
	for _, meta := range a.MetaPackages() {
		candidate, ok := a.cache.Candidate(meta)
		if !ok {
			a.log.Debug("%s has no candidate version, skipping", meta)
			continue
		}

		if a.RecommendsWallpaper(candidate) || excluded[meta] {
			continue
		}

		failed = append(failed, meta)
		a.log.Info("%s did not recommend wallpaper", meta)
	}

	return failed
}
