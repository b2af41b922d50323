package apt

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitRelations(t *testing.T) {
	tests := []struct {
		name  string
		field string
		want  []string
	}{
		{"empty", "", nil},
		{"blank", "   ", nil},
		{"single", "wallpaper-common", []string{"wallpaper-common"}},
		{
			name:  "alternatives and constraints stay together",
			field: "foo (>= 1.0), wallpaper-a | wallpaper-b, bar",
			want:  []string{"foo (>= 1.0)", "wallpaper-a | wallpaper-b", "bar"},
		},
		{
			name:  "folded continuation lines",
			field: "foo,\n bar,\n  baz (<< 2)",
			want:  []string{"foo", "bar", "baz (<< 2)"},
		},
		{"trailing comma", "foo, ", []string{"foo"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitRelations(tt.field))
		})
	}
}

func TestParseVersionsPackagesIndex(t *testing.T) {
	index := `Package: oem-stella-factory-meta-a
Architecture: all
Version: 20.04ubuntu3
Recommends: ubuntu-desktop, oem-wallpaper-stella
Description: factory meta package

Package: hello
Architecture: amd64
Version: 2.10-2
Description: example
`
	versions, skipped, err := parseVersions(strings.NewReader(index), "archive_Packages", false)
	require.NoError(t, err)
	assert.Empty(t, skipped)
	require.Len(t, versions, 2)

	meta := versions[0]
	assert.Equal(t, "oem-stella-factory-meta-a", meta.Package)
	assert.Equal(t, "20.04ubuntu3", meta.Version)
	assert.Equal(t, "all", meta.Architecture)
	assert.Equal(t, "archive_Packages", meta.Source)
	assert.Equal(t, []string{"ubuntu-desktop", "oem-wallpaper-stella"}, meta.Recommends)

	assert.Empty(t, versions[1].Recommends)
}

func TestParseVersionsStatusFiltersNotInstalled(t *testing.T) {
	status := `Package: installed-pkg
Status: install ok installed
Architecture: amd64
Version: 1.0

Package: removed-pkg
Status: deinstall ok config-files
Architecture: amd64
Version: 1.0
`
	versions, _, err := parseVersions(strings.NewReader(status), statusSource, true)
	require.NoError(t, err)
	require.Len(t, versions, 1)
	assert.Equal(t, "installed-pkg", versions[0].Package)
}

func TestParseVersionsSkipsIncompleteParagraph(t *testing.T) {
	index := `Package: broken
Architecture: all

Package: oem-stella-factory-meta-a
Architecture: all
Version: 1.0
Recommends: wallpaper-common
`
	versions, skipped, err := parseVersions(strings.NewReader(index), "mixed_Packages", false)
	require.NoError(t, err)

	require.Len(t, versions, 1)
	assert.Equal(t, "oem-stella-factory-meta-a", versions[0].Package)

	require.Len(t, skipped, 1)
	assert.True(t, errors.Is(skipped[0], ErrMissingField))
	assert.Contains(t, skipped[0].Error(), `"broken"`)
}

func TestIsInstalled(t *testing.T) {
	assert.True(t, isInstalled("install ok installed"))
	assert.True(t, isInstalled("hold ok installed"))
	assert.False(t, isInstalled("install ok unpacked"))
	assert.False(t, isInstalled("deinstall ok config-files"))
	assert.False(t, isInstalled(""))
}
