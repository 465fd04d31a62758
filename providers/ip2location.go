package providers

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/9seconds/ipattrib/topolib"
	"github.com/ip2location/ip2location-go/v9"
	"github.com/spf13/afero"
)

// Library fills fields which are not a part of the BIN file with
// these messages.
var ip2locationPlaceholders = []string{
	"This parameter is unavailable",
	"MISSING IN IPV4 BIN",
	"Invalid IP address",
	"Invalid database file",
}

// IP2Location is a dataset over IP2Location BIN file. Reader is not
// safe for concurrent use so all lookups are serialized.
type IP2Location struct {
	base

	db     *ip2location.DB
	dbLock sync.Mutex
}

func (i *IP2Location) Lookup(addr topolib.Address) (topolib.Fields, error) {
	i.dbLock.Lock()
	record, err := i.db.Get_all(addr.String())
	i.dbLock.Unlock()

	if err != nil {
		return nil, fmt.Errorf("cannot lookup %s: %w", addr, err)
	}

	fields := ip2locationFields(record)
	if len(fields) == 0 {
		return nil, topolib.ErrNoMatch
	}

	return fields, nil
}

func (i *IP2Location) Close() error {
	i.dbLock.Lock()
	defer i.dbLock.Unlock()

	i.db.Close()

	return nil
}

// OpenIP2Location opens IP2Location BIN file. Both families are
// claimed: IPv4 BIN files answer IPv6 queries with a placeholder which
// is treated as no match.
func OpenIP2Location(fs afero.Fs, name, path string) (*IP2Location, error) {
	file, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot open %s: %v", ErrDatasetUnavailable, path, err)
	}

	db, err := ip2location.OpenDBWithReader(file)
	if err != nil {
		file.Close()

		return nil, fmt.Errorf("%w: cannot parse %s: %v", ErrDatasetUnavailable, path, err)
	}

	return &IP2Location{
		base: base{
			name:     name,
			families: []topolib.Family{topolib.FamilyIPv4, topolib.FamilyIPv6},
		},
		db: db,
	}, nil
}

func ip2locationFields(record ip2location.IP2Locationrecord) topolib.Fields {
	fields := topolib.Fields{}

	fields.SetString(topolib.FieldCountry, ip2locationValue(record.Country_long))
	fields.SetCountryCode(ip2locationValue(record.Country_short))
	fields.SetString(topolib.FieldRegion, ip2locationValue(record.Region))
	fields.SetString(topolib.FieldCity, ip2locationValue(record.City))
	fields.SetCoordinates(float64(record.Latitude), float64(record.Longitude))
	fields.SetString(topolib.FieldTimezone, ip2locationValue(record.Timezone))
	fields.SetString(topolib.FieldZipCode, ip2locationValue(record.Zipcode))
	fields.SetString(topolib.FieldISP, ip2locationValue(record.Isp))
	fields.SetString(topolib.FieldASName, ip2locationValue(record.As))
	fields.SetString(topolib.FieldUsageType, ip2locationValue(record.Usagetype))
	fields.SetString(topolib.FieldNetspeed, ip2locationValue(record.Netspeed))
	fields.SetString(topolib.FieldIDDCode, ip2locationValue(record.Iddcode))
	fields.SetString(topolib.FieldWeatherStationName, ip2locationValue(record.Weatherstationname))
	fields.SetFloat(topolib.FieldElevation, float64(record.Elevation))

	if asn, err := strconv.ParseInt(ip2locationValue(record.Asn), 10, 64); err == nil {
		fields.SetInt(topolib.FieldASN, asn)
	}

	return fields
}

func ip2locationValue(value string) string {
	value = strings.TrimSpace(value)
	if value == "-" {
		return ""
	}

	for _, v := range ip2locationPlaceholders {
		if strings.Contains(value, v) {
			return ""
		}
	}

	return value
}
