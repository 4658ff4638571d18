package parser

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode"
)

// Records is the raw content of a source file: a header plus data rows.
type Records struct {
	Header []string
	Rows   [][]string
}

// Options controls how source files are read.
type Options struct {
	// Delimiter for delimited text. If 0, chosen from the file extension.
	Delimiter rune
	// Sheet selects an XLSX sheet by name; the first sheet when empty.
	Sheet string
}

// Reader reads one family of source formats.
type Reader interface {
	CanRead(filename string) bool
	Read(path string, opt Options) (*Records, error)
}

var registry []Reader

// Register adds a reader implementation to the registry.
func Register(r Reader) {
	registry = append(registry, r)
}

// ReadFile selects a reader based on filename and returns its records.
func ReadFile(path string, opt Options) (*Records, error) {
	for _, r := range registry {
		if r.CanRead(path) {
			recs, err := r.Read(path, opt)
			if err != nil {
				return nil, err
			}
			if err := validateHeader(recs.Header); err != nil {
				return nil, err
			}
			return recs, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupported, filepath.Base(path))
}

func validateHeader(header []string) error {
	if len(header) == 0 {
		return ErrEmpty
	}
	seen := make(map[string]struct{}, len(header))
	for i, h := range header {
		if strings.TrimSpace(h) == "" {
			return fmt.Errorf("%w: column %d has no name", ErrHeader, i+1)
		}
		if _, dup := seen[h]; dup {
			return fmt.Errorf("%w: duplicate column %q", ErrHeader, h)
		}
		seen[h] = struct{}{}
	}
	return nil
}

// knownExts are stripped, repeatedly, when deriving a table name.
var knownExts = map[string]bool{
	".csv": true, ".tsv": true, ".txt": true, ".xlsx": true,
	".gz": true, ".bz2": true, ".xz": true, ".zst": true,
}

// TableNameFromPath derives a table name from a file path: the base name
// with known extensions removed and every non-alphanumeric rune replaced by
// an underscore.
func TableNameFromPath(path string) string {
	base := filepath.Base(path)
	for {
		ext := strings.ToLower(filepath.Ext(base))
		if !knownExts[ext] || len(ext) == len(base) {
			break
		}
		base = base[:len(base)-len(ext)]
	}
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			return r
		}
		return '_'
	}, base)
}

func init() {
	Register(delimitedReader{})
	Register(xlsxReader{})
}

var (
	// ErrUnsupported indicates a format is not supported.
	ErrUnsupported = errors.New("unsupported file format")
	// ErrEmpty indicates the source has no header row.
	ErrEmpty = errors.New("source has no header row")
	// ErrHeader indicates blank or duplicate column names.
	ErrHeader = errors.New("invalid header")
)
