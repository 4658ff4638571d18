// Package schema decides the type of every imported column exactly once.
// The resulting descriptors drive both the SQL declared types written by the
// store and the numeric/non-numeric split used by the view functions.
package schema

import (
	"strconv"
	"strings"
	"time"
)

// Kind is the inferred type of a column.
type Kind int

const (
	KindText Kind = iota
	KindInteger
	KindReal
	KindDatetime
)

// Column describes one column of a table.
type Column struct {
	Name string
	Kind Kind
}

// Options controls value parsing during inference.
type Options struct {
	// DecimalSeparator is '.' when 0. Set to ',' for locales like 3,14.
	DecimalSeparator rune
}

// IsNumeric reports whether values of this kind are plotted and correlated.
func (k Kind) IsNumeric() bool { return k == KindInteger || k == KindReal }

// String renders a dtype-like label for the stats pane.
func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "int64"
	case KindReal:
		return "float64"
	case KindDatetime:
		return "datetime"
	default:
		return "object"
	}
}

// DeclType is the SQL declared type used when creating a table.
func (k Kind) DeclType() string {
	switch k {
	case KindInteger:
		return "INTEGER"
	case KindReal:
		return "REAL"
	case KindDatetime:
		return "DATETIME"
	default:
		return "TEXT"
	}
}

// KindFromDeclType maps a declared column type back to a Kind.
func KindFromDeclType(decl string) Kind {
	d := strings.ToUpper(strings.TrimSpace(decl))
	switch {
	case strings.Contains(d, "INT"):
		return KindInteger
	case strings.Contains(d, "REAL"), strings.Contains(d, "FLOA"), strings.Contains(d, "DOUB"), d == "NUMERIC":
		return KindReal
	case strings.Contains(d, "DATE"), strings.Contains(d, "TIME"):
		return KindDatetime
	default:
		return KindText
	}
}

// Infer inspects every row and returns one descriptor per header entry.
// A column is integer if all non-empty cells are integers, real if all are
// numbers, datetime if all match a known layout, and text otherwise.
// Columns with no non-empty cells are text.
func Infer(header []string, rows [][]string, opt Options) []Column {
	cols := make([]Column, len(header))
	for j, name := range header {
		cols[j] = Column{Name: name, Kind: inferColumn(rows, j, opt)}
	}
	return cols
}

func inferColumn(rows [][]string, j int, opt Options) Kind {
	var seen int
	allInt, allNum, allTime := true, true, true
	for _, row := range rows {
		if j >= len(row) {
			continue
		}
		v := strings.TrimSpace(row[j])
		if v == "" {
			continue
		}
		seen++
		if allInt {
			if _, err := strconv.ParseInt(v, 10, 64); err != nil {
				allInt = false
			}
		}
		if allNum {
			if _, ok := ParseNumber(v, opt); !ok {
				allNum = false
			}
		}
		if allTime {
			if _, ok := ParseTime(v); !ok {
				allTime = false
			}
		}
		if !allInt && !allNum && !allTime {
			return KindText
		}
	}
	switch {
	case seen == 0:
		return KindText
	case allInt:
		return KindInteger
	case allNum:
		return KindReal
	case allTime:
		return KindDatetime
	default:
		return KindText
	}
}

// ParseNumber parses a numeric cell. Empty strings, NaN and infinities are
// rejected so that they never turn a text column numeric.
func ParseNumber(s string, opt Options) (float64, bool) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return 0, false
	}
	if opt.DecimalSeparator != 0 && opt.DecimalSeparator != '.' {
		if strings.Contains(raw, ".") {
			return 0, false
		}
		raw = strings.ReplaceAll(raw, string(opt.DecimalSeparator), ".")
	}
	lower := strings.ToLower(strings.TrimLeft(raw, "+-"))
	if strings.HasPrefix(lower, "inf") || strings.HasPrefix(lower, "nan") || strings.HasPrefix(lower, "0x") {
		return 0, false
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

var timeLayouts = []string{
	time.RFC3339, "2006-01-02", "2006/01/02", "02/01/2006", "01/02/2006",
	"2006-01-02 15:04", "2006-01-02 15:04:05", "1/2/2006 15:04", "1/2/2006 15:04:05",
	"02.01.2006",
}

// ParseTime tries the known date layouts in order.
func ParseTime(s string) (time.Time, bool) {
	for _, l := range timeLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
