package providers

import (
	"fmt"
	"io"

	"github.com/9seconds/ipattrib/topolib"
	"github.com/spf13/afero"
)

// TrieDataset is a dataset over binary database file which holds
// an open handle.
type TrieDataset interface {
	topolib.Dataset
	io.Closer

	Families() []topolib.Family
}

// Open opens a trie dataset of the given kind. Family is used only by
// formats which cannot tell it from the file. SypexGeo and ip2region
// libraries work with OS files directly so path has to be real for
// them.
func Open(fs afero.Fs, kind, name, path string, family topolib.Family) (TrieDataset, error) {
	var (
		rv  TrieDataset
		err error
	)

	switch kind {
	case KindMMDB:
		var db *MMDB
		if db, err = OpenMMDB(fs, name, path); err == nil {
			rv = db
		}
	case KindIP2Location:
		var db *IP2Location
		if db, err = OpenIP2Location(fs, name, path); err == nil {
			rv = db
		}
	case KindSypex:
		var db *Sypex
		if db, err = OpenSypex(name, path); err == nil {
			rv = db
		}
	case KindIP2Region:
		if family == 0 {
			family = topolib.FamilyIPv4
		}

		var db *IP2Region
		if db, err = OpenIP2Region(name, path, family); err == nil {
			rv = db
		}
	default:
		err = fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}

	return rv, err
}
