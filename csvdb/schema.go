package csvdb

import (
	"fmt"
	"strings"

	"github.com/9seconds/ipattrib/topolib"
)

// ColumnKind defines how a value of the column is parsed.
type ColumnKind uint8

const (
	KindString ColumnKind = iota
	KindInt
	KindFloat
)

// BoundsFormat defines how leading columns define a range.
type BoundsFormat string

const (
	// BoundsRange means that first 2 columns are start and end of the
	// range. Each one is either a decimal ordinal or an IP address.
	BoundsRange BoundsFormat = "range"

	// BoundsCIDR means that first column is a network prefix.
	BoundsCIDR BoundsFormat = "cidr"
)

// SkipColumn is a schema name of the column which has to be ignored.
const SkipColumn = "-"

// DefaultSentinels are the values which mean 'no data'.
var DefaultSentinels = []string{"-", ""}

// Column is a description of the data column (after bounds).
type Column struct {
	Field topolib.Field
	Kind  ColumnKind
	Skip  bool
}

// Schema describes a layout of CSV file.
type Schema struct {
	Columns   []Column
	Bounds    BoundsFormat
	Sentinels map[string]struct{}
}

func (s Schema) boundColumns() int {
	if s.Bounds == BoundsCIDR {
		return 1
	}

	return 2
}

func (s Schema) isSentinel(value string) bool {
	_, ok := s.Sentinels[value]

	return ok
}

// ParseSchema parses a list of column definitions. Each definition is
// 'field', 'field:int', 'field:float' or '-' for columns which should
// be ignored. Bounds can be empty, it means BoundsRange. Given
// sentinels are added to DefaultSentinels.
func ParseSchema(columns []string, bounds string, sentinels []string) (Schema, error) {
	rv := Schema{
		Columns:   make([]Column, 0, len(columns)),
		Bounds:    BoundsRange,
		Sentinels: map[string]struct{}{},
	}

	switch BoundsFormat(strings.ToLower(bounds)) {
	case "", BoundsRange:
	case BoundsCIDR:
		rv.Bounds = BoundsCIDR
	default:
		return rv, fmt.Errorf("unknown bounds format %s", bounds)
	}

	for _, v := range DefaultSentinels {
		rv.Sentinels[v] = struct{}{}
	}

	for _, v := range sentinels {
		rv.Sentinels[strings.TrimSpace(v)] = struct{}{}
	}

	seen := map[topolib.Field]struct{}{}

	for _, v := range columns {
		v = strings.TrimSpace(v)

		if v == SkipColumn {
			rv.Columns = append(rv.Columns, Column{Skip: true})

			continue
		}

		name, kind := v, ""

		if idx := strings.IndexByte(v, ':'); idx >= 0 {
			name, kind = v[:idx], v[idx+1:]
		}

		field, err := topolib.ParseField(name)
		if err != nil {
			return rv, fmt.Errorf("incorrect column %s: %w", v, err)
		}

		if _, ok := seen[field]; ok {
			return rv, fmt.Errorf("field %s is duplicated", field)
		}

		seen[field] = struct{}{}
		column := Column{Field: field}

		switch kind {
		case "", "string", "str":
			column.Kind = KindString
		case "int":
			column.Kind = KindInt
		case "float":
			column.Kind = KindFloat
		default:
			return rv, fmt.Errorf("unknown kind %s of column %s", kind, name)
		}

		rv.Columns = append(rv.Columns, column)
	}

	if len(seen) == 0 {
		return rv, ErrEmptySchema
	}

	return rv, nil
}
