package dataset

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// sourceReader couples a decoded stream with the closers of every layer
// underneath it (decompressor, archive, file).
type sourceReader struct {
	io.Reader
	closers []func() error
}

func (s *sourceReader) Close() error {
	var firstErr error
	for _, close := range s.closers {
		if err := close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// openSource opens the tabular source for streaming, transparently
// decompressing containers indicated by the file extension: .zip, .gz, .zst
// and .sz (snappy framed). Any other extension is read as plain text.
func openSource(path string) (io.ReadCloser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zip":
		return openZipSource(path)
	case ".gz":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		zr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("%w: bad gzip container: %v", ErrMalformedSource, err)
		}
		return &sourceReader{Reader: zr, closers: []func() error{zr.Close, f.Close}}, nil
	case ".zst":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		zr, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("%w: bad zstd container: %v", ErrMalformedSource, err)
		}
		return &sourceReader{
			Reader:  zr,
			closers: []func() error{func() error { zr.Close(); return nil }, f.Close},
		}, nil
	case ".sz":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		return &sourceReader{Reader: snappy.NewReader(f), closers: []func() error{f.Close}}, nil
	default:
		return os.Open(path)
	}
}

// openZipSource streams the first CSV entry of a zip archive, falling back
// to the first regular file when no entry carries a .csv extension.
func openZipSource(path string) (io.ReadCloser, error) {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("%w: bad zip container: %v", ErrMalformedSource, err)
	}

	var entry *zip.File
	for _, f := range archive.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if strings.HasSuffix(strings.ToLower(f.Name), ".csv") {
			entry = f
			break
		}
		if entry == nil {
			entry = f
		}
	}
	if entry == nil {
		archive.Close()
		return nil, fmt.Errorf("%w: zip archive has no file entries", ErrMalformedSource)
	}

	rc, err := entry.Open()
	if err != nil {
		archive.Close()
		return nil, fmt.Errorf("%w: cannot open zip entry %q: %v", ErrMalformedSource, entry.Name, err)
	}
	return &sourceReader{Reader: rc, closers: []func() error{rc.Close, archive.Close}}, nil
}
