package parser

import (
	"compress/bzip2"
	"compress/gzip"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

type delimitedReader struct{}

// compression suffix -> opener
var decompressors = map[string]func(io.Reader) (io.ReadCloser, error){
	".gz": func(r io.Reader) (io.ReadCloser, error) { return gzip.NewReader(r) },
	".bz2": func(r io.Reader) (io.ReadCloser, error) {
		return io.NopCloser(bzip2.NewReader(r)), nil
	},
	".xz": func(r io.Reader) (io.ReadCloser, error) {
		xr, err := xz.NewReader(r)
		if err != nil {
			return nil, err
		}
		return io.NopCloser(xr), nil
	},
	".zst": func(r io.Reader) (io.ReadCloser, error) {
		d, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return d.IOReadCloser(), nil
	},
}

// splitCompression returns the name without a compression suffix and the suffix.
func splitCompression(name string) (string, string) {
	ext := strings.ToLower(filepath.Ext(name))
	if _, ok := decompressors[ext]; ok {
		return name[:len(name)-len(ext)], ext
	}
	return name, ""
}

func (delimitedReader) CanRead(filename string) bool {
	inner, _ := splitCompression(strings.ToLower(filepath.Base(filename)))
	switch filepath.Ext(inner) {
	case ".csv", ".tsv", ".txt", "":
		return true
	}
	return false
}

func (delimitedReader) Read(path string, opt Options) (*Records, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open source: %w", err)
	}
	defer f.Close()

	var src io.Reader = f
	inner, comp := splitCompression(filepath.Base(path))
	if comp != "" {
		rc, err := decompressors[comp](f)
		if err != nil {
			return nil, fmt.Errorf("open %s stream: %w", strings.TrimPrefix(comp, "."), err)
		}
		defer rc.Close()
		src = rc
	}

	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(inner)
	}
	return readDelimited(src, delim)
}

func readDelimited(src io.Reader, delim rune) (*Records, error) {
	r := csv.NewReader(src)
	r.Comma = delim
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmpty
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}
	recs := &Records{Header: header}
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", len(recs.Rows)+1, err)
		}
		recs.Rows = append(recs.Rows, rec)
	}
	return recs, nil
}

func sniffDelimiter(name string) rune {
	if strings.HasSuffix(strings.ToLower(name), ".tsv") {
		return '\t'
	}
	return ','
}
