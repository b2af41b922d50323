package apt

import "sort"

// MemoryCache is a package database held entirely in memory.
// It is used by tests and by callers that already have package records.
type MemoryCache struct {
	packages map[string][]*Version
}

// NewMemoryCache creates a MemoryCache from the given versions, keyed by
// Version.Package
func NewMemoryCache(versions ...*Version) *MemoryCache {
	m := &MemoryCache{packages: make(map[string][]*Version)}
	for _, v := range versions {
		m.Add(v)
	}
	return m
}

// Add records a version
func (m *MemoryCache) Add(v *Version) {
	m.packages[v.Package] = append(m.packages[v.Package], v)
}

// AddName records a package that has no installable version
func (m *MemoryCache) AddName(name string) {
	if _, ok := m.packages[name]; !ok {
		m.packages[name] = nil
	}
}

// Names returns every package name, sorted
func (m *MemoryCache) Names() []string {
	names := make([]string, 0, len(m.packages))
	for name := range m.packages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Candidate returns the highest known version of a package
func (m *MemoryCache) Candidate(name string) (*Version, bool) {
	return highest(m.packages[name])
}
