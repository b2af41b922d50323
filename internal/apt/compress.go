package apt

import (
	"compress/bzip2"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/ulikunitz/xz"
)

// ErrUnsupportedCompression is returned for an index whose extension has no decompressor
var ErrUnsupportedCompression = errors.New("unsupported index compression")

// isPackagesIndex reports whether a lists/ entry is a Packages index, plain or
// compressed. pdiff files (*_Packages.diff_Index) are not indexes.
func isPackagesIndex(name string) bool {
	ext, ok := indexExtension(name)
	return ok && (ext == "" || (strings.HasPrefix(ext, ".") && !strings.Contains(ext, "diff_Index")))
}

// indexExtension returns what follows "_Packages" in a lists/ file name.
// filepath.Ext cannot be used: mirror host names put dots earlier in the name.
func indexExtension(name string) (string, bool) {
	i := strings.LastIndex(name, "_Packages")
	if i < 0 {
		return "", false
	}
	return name[i+len("_Packages"):], true
}

// openIndex opens path and returns a reader over its decompressed content.
// The compression is chosen by extension, the way apt names its lists files.
func openIndex(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	ext, _ := indexExtension(filepath.Base(path))
	r, err := decompress(f, ext)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return &indexReader{Reader: r, file: f}, nil
}

func decompress(f *os.File, ext string) (io.Reader, error) {
	switch ext {
	case "":
		return f, nil
	case ".gz":
		return gzip.NewReader(f)
	case ".lz4":
		return lz4.NewReader(f), nil
	case ".xz":
		return xz.NewReader(f)
	case ".zst":
		d, err := zstd.NewReader(f)
		if err != nil {
			return nil, err
		}
		return d.IOReadCloser(), nil
	case ".bz2":
		return bzip2.NewReader(f), nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnsupportedCompression, ext)
}

// indexReader closes the decompressor (when it has a Close) and then the file
type indexReader struct {
	io.Reader
	file *os.File
}

func (r *indexReader) Close() error {
	if c, ok := r.Reader.(io.Closer); ok && r.Reader != io.Reader(r.file) {
		c.Close()
	}
	return r.file.Close()
}
