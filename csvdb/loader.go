package csvdb

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strconv"
	"strings"

	"github.com/9seconds/ipattrib/topolib"
	"github.com/spf13/afero"
)

// Options is a set of parameters for Load.
type Options struct {
	Name      string
	Family    topolib.Family
	Delimiter rune
	Schema    Schema

	// InternCacheSize is a size of LRU cache which is used to share
	// identical field sets between ranges.
	InternCacheSize int
}

// Stats is a load report.
type Stats struct {
	Entries  int
	Skipped  int
	Overlaps int
	Missing  bool
}

// Load streams a CSV file into a RangeTable. Malformed lines are
// skipped and counted. If file does not exist, an empty table is
// returned with Stats.Missing set: this is not an error.
func Load(filesystem afero.Fs, path string, opts Options) (*topolib.RangeTable, Stats, error) {
	stats := Stats{}

	source, err := OpenSource(filesystem, path)

	switch {
	case errors.Is(err, fs.ErrNotExist):
		stats.Missing = true

		return topolib.NewRangeTable(opts.Name, opts.Family, nil), stats, nil
	case err != nil:
		return nil, stats, fmt.Errorf("cannot open %s: %w", path, err)
	}

	defer source.Close()

	entries, skipped, err := readEntries(source, opts)
	if err != nil {
		return nil, stats, fmt.Errorf("cannot read %s: %w", path, err)
	}

	table := topolib.NewRangeTable(opts.Name, opts.Family, entries)

	stats.Entries = table.Len()
	stats.Skipped = skipped
	stats.Overlaps = table.Overlaps()

	return table, stats, nil
}

func readEntries(source io.Reader, opts Options) ([]topolib.RangeEntry, int, error) {
	cache := newFieldsCache(opts.InternCacheSize)
	reader := NewCSVReader(source, opts.Delimiter, func(data []string) (topolib.RangeEntry, error) {
		entry, err := MakeEntry(data, opts.Family, opts.Schema)
		if err != nil {
			return entry, err
		}

		entry.Fields = cache.get(entry.Fields)

		return entry, nil
	})
	entries := []topolib.RangeEntry{}
	skipped := 0

	for {
		entry, err := reader.Read()

		switch {
		case errors.Is(err, io.EOF):
			return entries, skipped, nil
		case err != nil:
			return nil, skipped, err
		case entry == nil:
			skipped++
		default:
			entries = append(entries, *entry)
		}
	}
}

// MakeEntry converts a single CSV record into RangeEntry according to
// schema. Record has to contain bounds; missing trailing columns are
// treated as absent values.
func MakeEntry(data []string, family topolib.Family, schema Schema) (topolib.RangeEntry, error) {
	entry := topolib.RangeEntry{}
	boundColumns := schema.boundColumns()

	if len(data) < boundColumns {
		return entry, fmt.Errorf("%w: not enough columns", ErrMalformedLine)
	}

	var err error

	if schema.Bounds == BoundsCIDR {
		entry.Start, entry.End, err = ParseCIDR(data[0], family)
	} else {
		if entry.Start, err = ParseBound(data[0], family); err == nil {
			entry.End, err = ParseBound(data[1], family)
		}
	}

	if err != nil {
		return entry, fmt.Errorf("%w: %v", ErrMalformedLine, err)
	}

	if entry.End.Less(entry.Start) {
		return entry, fmt.Errorf("%w: start is greater than end", ErrMalformedLine)
	}

	entry.Fields = make(topolib.Fields, len(schema.Columns))
	countryCode := ""

	for idx, column := range schema.Columns {
		pos := boundColumns + idx
		if pos >= len(data) {
			break
		}

		value := strings.TrimSpace(data[pos])

		if column.Skip || schema.isSentinel(value) {
			continue
		}

		if column.Field == topolib.FieldCountryCode {
			countryCode = value

			continue
		}

		switch column.Kind {
		case KindString:
			entry.Fields.SetString(column.Field, value)
		case KindInt:
			if num, err := strconv.ParseInt(value, 10, 64); err == nil {
				entry.Fields[column.Field] = num
			}
		case KindFloat:
			if num, err := strconv.ParseFloat(value, 64); err == nil {
				entry.Fields[column.Field] = num
			}
		}
	}

	if countryCode != "" {
		entry.Fields.SetCountryCode(countryCode)
	}

	return entry, nil
}
