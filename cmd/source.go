// File: cmd/source.go
package cmd

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/andybalholm/brotli"
)

// openSource opens path for reading, transparently decompressing brotli
// (.br) and gzip (.gz) files. The returned name has the compression suffix
// removed so callers can dispatch on the inner extension.
func openSource(path string) (io.ReadCloser, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, path, err
	}

	ext := strings.ToLower(filepath.Ext(path))
	name := strings.TrimSuffix(path, filepath.Ext(path))
	switch ext {
	case ".br":
		return readCloser{Reader: brotli.NewReader(f), close: f.Close}, name, nil
	case ".gz":
		zr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, path, fmt.Errorf("invalid gzip stream: %w", err)
		}
		return readCloser{Reader: zr, close: func() error {
			zr.Close()
			return f.Close()
		}}, name, nil
	}
	return f, path, nil
}

// readSource reads the whole of path, decompressing it if needed.
func readSource(path string) ([]byte, error) {
	rc, _, err := openSource(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

type readCloser struct {
	io.Reader
	close func() error
}

func (r readCloser) Close() error { return r.close() }
