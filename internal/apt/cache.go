// Package apt provides a read-only view of the host's APT package database.
//
// The cache is assembled from the downloaded package indexes under
// /var/lib/apt/lists and the dpkg status file. Each package name maps to the
// versions known for it; the candidate is the highest one by Debian version
// ordering. APT pin priorities are not evaluated.
package apt

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
)

const (
	// DefaultListsDir is where apt stores downloaded Packages indexes
	DefaultListsDir = "/var/lib/apt/lists"
	// DefaultStatusFile is dpkg's record of installed packages
	DefaultStatusFile = "/var/lib/dpkg/status"

	// statusSource labels versions read from the dpkg status file
	statusSource = "dpkg-status"
)

// Version is a single candidate record for a package
type Version struct {
	Package      string   // e.g., "oem-stella-factory-meta-a"
	Version      string   // e.g., "20.04ubuntu3"
	Architecture string   // e.g., "amd64", "all"
	Source       string   // index file the record came from
	Recommends   []string // raw Recommends declarations, e.g., "wallpaper-a | wallpaper-b"
}

// Options controls where the cache is loaded from
type Options struct {
	ListsDir     string
	StatusFile   string
	Architecture string // native dpkg architecture; foreign packages get a ":arch" suffix
}

// LoadError represents an index file, or a paragraph in one, that could not be read
type LoadError struct {
	Path    string
	Message string
}

// Cache is an in-memory package database built from APT's on-disk state
type Cache struct {
	packages map[string][]*Version
	names    []string
	Errors   []LoadError
}

// withDefaults fills unset options
func (o Options) withDefaults() Options {
	if o.ListsDir == "" {
		o.ListsDir = DefaultListsDir
	}
	if o.StatusFile == "" {
		o.StatusFile = DefaultStatusFile
	}
	if o.Architecture == "" {
		o.Architecture = NativeArchitecture()
	}
	return o
}

// Load reads every Packages index in the lists directory, plain or
// compressed (.gz, .lz4, .xz, .zst, .bz2), plus the dpkg status file.
// Missing locations yield an empty cache. Unreadable files, indexes with an
// unknown compression and malformed paragraphs are skipped and recorded in
// Errors; the rest of the cache still loads.
func Load(opts Options) (*Cache, error) {
	opts = opts.withDefaults()
	cache := &Cache{
		packages: make(map[string][]*Version),
		Errors:   []LoadError{},
	}

	matches, err := filepath.Glob(filepath.Join(opts.ListsDir, "*_Packages*"))
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)

	for _, path := range matches {
		if !isPackagesIndex(filepath.Base(path)) {
			continue
		}
		versions, skipped, err := readVersions(path, filepath.Base(path), false)
		if err != nil {
			cache.addError(path, err)
			continue
		}
		cache.add(versions, opts.Architecture)
		for _, e := range skipped {
			cache.addError(path, e)
		}
	}

	versions, skipped, err := readVersions(opts.StatusFile, statusSource, true)
	switch {
	case err == nil:
		cache.add(versions, opts.Architecture)
		for _, e := range skipped {
			cache.addError(opts.StatusFile, e)
		}
	case errors.Is(err, os.ErrNotExist):
		// No dpkg database, e.g. when pointed at a bare lists directory
	default:
		cache.addError(opts.StatusFile, err)
	}

	cache.names = make([]string, 0, len(cache.packages))
	for name := range cache.packages {
		cache.names = append(cache.names, name)
	}
	sort.Strings(cache.names)

	return cache, nil
}

func (c *Cache) addError(path string, err error) {
	c.Errors = append(c.Errors, LoadError{Path: path, Message: err.Error()})
}

// add indexes versions under their cache key
func (c *Cache) add(versions []*Version, nativeArch string) {
	for _, v := range versions {
		key := cacheKey(v, nativeArch)
		c.packages[key] = append(c.packages[key], v)
	}
}

// cacheKey names native and arch-independent packages by their bare name and
// foreign-architecture packages as "name:arch"
func cacheKey(v *Version, nativeArch string) string {
	if v.Architecture == "" || v.Architecture == "all" || v.Architecture == nativeArch {
		return v.Package
	}
	return v.Package + ":" + v.Architecture
}

// Names returns every package name in the cache, sorted. The slice is a copy.
func (c *Cache) Names() []string {
	names := make([]string, len(c.names))
	copy(names, c.names)
	return names
}

// Versions returns all known versions of a package
func (c *Cache) Versions(name string) []*Version {
	return c.packages[name]
}

// Candidate returns the highest known version of a package
func (c *Cache) Candidate(name string) (*Version, bool) {
	return highest(c.packages[name])
}

// Len returns the number of package names in the cache
func (c *Cache) Len() int {
	return len(c.names)
}

// highest picks the greatest version; on equal versions the first record wins
func highest(versions []*Version) (*Version, bool) {
	var best *Version
	for _, v := range versions {
		if best == nil || CompareVersions(v.Version, best.Version) > 0 {
			best = v
		}
	}
	return best, best != nil
}
