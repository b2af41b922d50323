package apt

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"
)

// compressIndex encodes content the way apt stores lists files with the given extension
func compressIndex(t *testing.T, ext, content string) []byte {
	t.Helper()
	buf := new(bytes.Buffer)

	var w io.WriteCloser
	switch ext {
	case ".gz":
		w = gzip.NewWriter(buf)
	case ".lz4":
		w = lz4.NewWriter(buf)
	case ".xz":
		xw, err := xz.NewWriter(buf)
		require.NoError(t, err)
		w = xw
	case ".zst":
		zw, err := zstd.NewWriter(buf)
		require.NoError(t, err)
		w = zw
	default:
		t.Fatalf("no test encoder for %q", ext)
	}

	_, err := io.WriteString(w, content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func metaIndex(name string) string {
	return "Package: " + name + "\nArchitecture: all\nVersion: 1.0\nRecommends: some-other-pkg\n"
}

func TestLoadReadsCompressedIndexes(t *testing.T) {
	opts := createTestAptState(t, nil)
	prefix := "deb.debian.org_debian_dists_bookworm_main_binary-amd64"

	fixtures := map[string]string{
		".gz":  "oem-stella-factory-meta-gz",
		".lz4": "oem-stella-factory-meta-lz4",
		".xz":  "oem-stella-factory-meta-xz",
		".zst": "oem-stella-factory-meta-zst",
	}
	for ext, name := range fixtures {
		// Each fixture lives in a separate mirror so file names stay distinct
		path := filepath.Join(opts.ListsDir, strings.TrimPrefix(ext, ".")+"."+prefix+"_Packages"+ext)
		require.NoError(t, os.WriteFile(path, compressIndex(t, ext, metaIndex(name)), 0644))
	}
	require.NoError(t, os.WriteFile(
		filepath.Join(opts.ListsDir, prefix+"_Packages"),
		[]byte(metaIndex("oem-stella-factory-meta-plain")), 0644))

	cache, err := Load(opts)
	require.NoError(t, err)
	assert.Empty(t, cache.Errors)

	assert.Equal(t, []string{
		"oem-stella-factory-meta-gz",
		"oem-stella-factory-meta-lz4",
		"oem-stella-factory-meta-plain",
		"oem-stella-factory-meta-xz",
		"oem-stella-factory-meta-zst",
	}, cache.Names())

	candidate, ok := cache.Candidate("oem-stella-factory-meta-lz4")
	require.True(t, ok)
	assert.Equal(t, []string{"some-other-pkg"}, candidate.Recommends)
}

func TestLoadSkipsDiffIndex(t *testing.T) {
	opts := createTestAptState(t, map[string]string{
		"archive_Packages.diff_Index": "SHA256-Current: abc 123\n",
		"archive_Packages":            oemIndex,
	})

	cache, err := Load(opts)
	require.NoError(t, err)
	assert.Empty(t, cache.Errors)
	assert.Equal(t, []string{"oem-stella-factory-meta-a"}, cache.Names())
}

func TestLoadRecordsUnsupportedCompression(t *testing.T) {
	opts := createTestAptState(t, map[string]string{
		"archive_Packages.br": "opaque",
		"other_Packages":      oemIndex,
	})

	cache, err := Load(opts)
	require.NoError(t, err)

	require.Len(t, cache.Errors, 1)
	assert.Equal(t, filepath.Join(opts.ListsDir, "archive_Packages.br"), cache.Errors[0].Path)
	assert.Contains(t, cache.Errors[0].Message, ErrUnsupportedCompression.Error())
	assert.Equal(t, []string{"oem-stella-factory-meta-a"}, cache.Names())
}

func TestLoadRecordsCorruptCompressedIndex(t *testing.T) {
	opts := createTestAptState(t, map[string]string{
		"archive_Packages.gz": "not gzip data",
	})

	cache, err := Load(opts)
	require.NoError(t, err)
	require.Len(t, cache.Errors, 1)
	assert.Empty(t, cache.Names())
}

func TestIsPackagesIndex(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"deb.debian.org_debian_dists_bookworm_main_binary-amd64_Packages", true},
		{"deb.debian.org_debian_dists_bookworm_main_binary-amd64_Packages.lz4", true},
		{"archive_Packages.gz", true},
		{"archive_Packages.diff_Index", false},
		{"deb.debian.org_debian_dists_bookworm_InRelease", false},
		{"archive_Sources.xz", false},
		{"archive_Packages-old", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isPackagesIndex(tt.name), tt.name)
	}
}
