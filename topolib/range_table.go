package topolib

import "sort"

// RangeEntry maps a closed range of ordinals to a set of fields.
type RangeEntry struct {
	Start  Ordinal
	End    Ordinal
	Fields Fields
}

func (r RangeEntry) Contains(value Ordinal) bool {
	return r.Start.Compare(value) <= 0 && value.Compare(r.End) <= 0
}

// RangeTable is an immutable sorted list of non-overlapping ranges.
// It is safe for concurrent use.
type RangeTable struct {
	name     string
	family   Family
	entries  []RangeEntry
	overlaps int
}

func (r *RangeTable) Name() string {
	return r.name
}

func (r *RangeTable) Family() Family {
	return r.family
}

func (r *RangeTable) Supports(family Family) bool {
	return r.family == family
}

func (r *RangeTable) Len() int {
	return len(r.entries)
}

// Overlaps returns a number of entries which were dropped because they
// overlap with some other entry or are inverted.
func (r *RangeTable) Overlaps() int {
	return r.overlaps
}

// Lookup does a binary search over entries. Both ends of the range are
// inclusive.
func (r *RangeTable) Lookup(value Ordinal) (RangeEntry, bool) {
	low, high := 0, len(r.entries)-1

	for low <= high {
		mid := low + (high-low)/2
		entry := &r.entries[mid]

		switch {
		case value.Less(entry.Start):
			high = mid - 1
		case entry.End.Less(value):
			low = mid + 1
		default:
			return *entry, true
		}
	}

	return RangeEntry{}, false
}

// LookupAddress is a Dataset-compatible lookup.
func (r *RangeTable) LookupAddress(addr Address) (Fields, error) {
	if !r.Supports(addr.Family) {
		return nil, ErrNoMatch
	}

	entry, ok := r.Lookup(addr.Ordinal)
	if !ok || len(entry.Fields) == 0 {
		return nil, ErrNoMatch
	}

	return entry.Fields, nil
}

// AsDataset wraps a table so it conforms Dataset interface.
func (r *RangeTable) AsDataset() Dataset {
	return rangeTableDataset{r}
}

type rangeTableDataset struct {
	*RangeTable
}

func (r rangeTableDataset) Lookup(addr Address) (Fields, error) {
	return r.LookupAddress(addr)
}

// NewRangeTable sorts entries and removes overlaps. Entries are
// stably sorted by start so an entry with the lowest start wins; if
// starts are equal, an entry which comes first in a given slice wins.
// Entries with start > end are dropped as well.
//
// A given slice is reused.
func NewRangeTable(name string, family Family, entries []RangeEntry) *RangeTable {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Start.Less(entries[j].Start)
	})

	rv := &RangeTable{
		name:   name,
		family: family,
	}
	kept := entries[:0]

	for _, v := range entries {
		if v.End.Less(v.Start) {
			rv.overlaps++

			continue
		}

		if len(kept) > 0 && !kept[len(kept)-1].End.Less(v.Start) {
			rv.overlaps++

			continue
		}

		kept = append(kept, v)
	}

	rv.entries = kept

	return rv
}
