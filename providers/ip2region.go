package providers

import (
	"fmt"
	"strings"
	"sync"

	"github.com/9seconds/ipattrib/topolib"
	"github.com/lionsoul2014/ip2region/binding/golang/xdb"
)

// IP2Region is a dataset over ip2region xdb file. Region string is
// Country|Area|Province|City|ISP. xdb file has a single family so
// it has to be set explicitly.
type IP2Region struct {
	base

	searcher     *xdb.Searcher
	searcherLock sync.Mutex
}

func (i *IP2Region) Lookup(addr topolib.Address) (topolib.Fields, error) {
	i.searcherLock.Lock()
	region, err := i.searcher.SearchByStr(addr.String())
	i.searcherLock.Unlock()

	if err != nil {
		return nil, fmt.Errorf("cannot lookup %s: %w", addr, err)
	}

	fields := ip2regionFields(region)
	if len(fields) == 0 {
		return nil, topolib.ErrNoMatch
	}

	return fields, nil
}

func (i *IP2Region) Close() error {
	i.searcherLock.Lock()
	defer i.searcherLock.Unlock()

	i.searcher.Close()

	return nil
}

// OpenIP2Region opens xdb file. Searcher reads a file from OS
// filesystem on each lookup.
func OpenIP2Region(name, path string, family topolib.Family) (*IP2Region, error) {
	version := xdb.IPv4
	if family == topolib.FamilyIPv6 {
		version = xdb.IPv6
	}

	searcher, err := xdb.NewWithFileOnly(version, path)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot open %s: %v", ErrDatasetUnavailable, path, err)
	}

	return &IP2Region{
		base: base{
			name:     name,
			families: []topolib.Family{family},
		},
		searcher: searcher,
	}, nil
}

func ip2regionFields(region string) topolib.Fields {
	fields := topolib.Fields{}
	parts := strings.Split(region, "|")

	get := func(idx int) string {
		if idx >= len(parts) {
			return ""
		}

		value := strings.TrimSpace(parts[idx])
		if value == "0" || strings.EqualFold(value, "unknown") || value == "内网IP" {
			return ""
		}

		return value
	}

	fields.SetString(topolib.FieldCountry, get(0))
	fields.SetString(topolib.FieldRegion, get(2))
	fields.SetString(topolib.FieldCity, get(3))
	fields.SetString(topolib.FieldISP, get(4))

	return fields
}
