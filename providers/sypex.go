package providers

import (
	"fmt"
	"sync"

	"github.com/9seconds/ipattrib/topolib"
	sypex "gopkg.in/night-codes/go-sypexgeo.v1"
)

// Sypex is a dataset over SypexGeo City file. SypexGeo has IPv4
// data only.
type Sypex struct {
	base

	db     sypex.SxGEO
	dbLock sync.Mutex
}

func (s *Sypex) Lookup(addr topolib.Address) (topolib.Fields, error) {
	s.dbLock.Lock()
	info, err := s.db.GetCityFull(addr.String())
	s.dbLock.Unlock()

	// library reports a miss as an error and it is the only error we
	// could get for a valid address.
	if err != nil {
		return nil, topolib.ErrNoMatch
	}

	fields := sypexFields(info)
	if len(fields) == 0 {
		return nil, topolib.ErrNoMatch
	}

	return fields, nil
}

func (s *Sypex) Close() error {
	return nil
}

// OpenSypex loads SypexGeo dat file. Library reads a file from OS
// filesystem and panics on broken files.
func OpenSypex(name, path string) (rv *Sypex, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			rv = nil
			err = fmt.Errorf("%w: cannot parse %s: %v", ErrDatasetUnavailable, path, rec)
		}
	}()

	db := sypex.New(path)

	return &Sypex{
		base: base{
			name:     name,
			families: []topolib.Family{topolib.FamilyIPv4},
		},
		db: db,
	}, nil
}

func sypexFields(info map[string]interface{}) topolib.Fields {
	fields := topolib.Fields{}
	country := sypexMap(info, "country")
	region := sypexMap(info, "region")
	city := sypexMap(info, "city")

	fields.SetString(topolib.FieldCountry, sypexString(country, "name_en"))
	fields.SetCountryCode(sypexString(country, "iso"))
	fields.SetString(topolib.FieldRegion, sypexString(region, "name_en"))
	fields.SetString(topolib.FieldCity, sypexString(city, "name_en"))

	latitude, longitude := sypexFloat(city, "lat"), sypexFloat(city, "lon")
	if latitude == 0 && longitude == 0 {
		latitude, longitude = sypexFloat(country, "lat"), sypexFloat(country, "lon")
	}

	fields.SetCoordinates(latitude, longitude)

	return fields
}

func sypexMap(info map[string]interface{}, key string) map[string]interface{} {
	if value, ok := info[key].(map[string]interface{}); ok {
		return value
	}

	return nil
}

func sypexString(data map[string]interface{}, key string) string {
	if value, ok := data[key].(string); ok {
		return value
	}

	return ""
}

func sypexFloat(data map[string]interface{}, key string) float64 {
	switch value := data[key].(type) {
	case float64:
		return value
	case float32:
		return float64(value)
	case int:
		return float64(value)
	case int32:
		return float64(value)
	case uint32:
		return float64(value)
	}

	return 0
}
