package providers

import (
	"fmt"
	"net"
	"strings"

	"github.com/9seconds/ipattrib/topolib"
	"github.com/oschwald/geoip2-golang"
	"github.com/oschwald/maxminddb-golang"
	"github.com/spf13/afero"
)

type mmdbDecoder func(*maxminddb.Reader, net.IP) (topolib.Fields, bool, error)

// MMDB is a dataset over MaxMind DB file. Records are decoded
// according to the database type from metadata: city and country
// databases, ASN, ISP and anonymous IP databases are supported.
type MMDB struct {
	base

	reader *maxminddb.Reader
	decode mmdbDecoder
}

func (m *MMDB) Lookup(addr topolib.Address) (topolib.Fields, error) {
	fields, ok, err := m.decode(m.reader, addr.IP())

	switch {
	case err != nil:
		return nil, fmt.Errorf("cannot lookup %s: %w", addr, err)
	case !ok || len(fields) == 0:
		return nil, topolib.ErrNoMatch
	}

	return fields, nil
}

// DatabaseType returns a type of the database from its metadata.
func (m *MMDB) DatabaseType() string {
	return m.reader.Metadata.DatabaseType
}

func (m *MMDB) Close() error {
	return m.reader.Close()
}

// OpenMMDB reads MaxMind DB file into memory.
func OpenMMDB(fs afero.Fs, name, path string) (*MMDB, error) {
	content, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot read %s: %v", ErrDatasetUnavailable, path, err)
	}

	reader, err := maxminddb.FromBytes(content)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot parse %s: %v", ErrDatasetUnavailable, path, err)
	}

	decode, err := chooseMMDBDecoder(reader.Metadata.DatabaseType)
	if err != nil {
		reader.Close()

		return nil, err
	}

	return &MMDB{
		base: base{
			name:     name,
			families: familiesOf(reader.Metadata.IPVersion),
		},
		reader: reader,
		decode: decode,
	}, nil
}

func chooseMMDBDecoder(databaseType string) (mmdbDecoder, error) {
	switch {
	case strings.Contains(databaseType, "Anonymous-IP"):
		return decodeMMDBAnonymousIP, nil
	case strings.Contains(databaseType, "ASN"):
		return decodeMMDBASN, nil
	case strings.Contains(databaseType, "ISP"):
		return decodeMMDBISP, nil
	case strings.Contains(databaseType, "City"),
		strings.Contains(databaseType, "Country"),
		strings.Contains(databaseType, "Enterprise"):
		return decodeMMDBCity, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrUnknownDatabaseType, databaseType)
}

func decodeMMDBCity(reader *maxminddb.Reader, ip net.IP) (topolib.Fields, bool, error) {
	record := geoip2.City{}

	_, ok, err := reader.LookupNetwork(ip, &record)
	if err != nil || !ok {
		return nil, ok, err
	}

	fields := topolib.Fields{}

	fields.SetString(topolib.FieldCountry, record.Country.Names["en"])
	fields.SetCountryCode(record.Country.IsoCode)

	if len(record.Subdivisions) > 0 {
		fields.SetString(topolib.FieldRegion, record.Subdivisions[0].Names["en"])
	}

	fields.SetString(topolib.FieldCity, record.City.Names["en"])
	fields.SetCoordinates(record.Location.Latitude, record.Location.Longitude)
	fields.SetString(topolib.FieldTimezone, record.Location.TimeZone)
	fields.SetString(topolib.FieldZipCode, record.Postal.Code)

	if record.Traits.IsAnonymousProxy {
		fields.SetString(topolib.FieldProxyType, "PUB")
	}

	return fields, true, nil
}

func decodeMMDBASN(reader *maxminddb.Reader, ip net.IP) (topolib.Fields, bool, error) {
	record := geoip2.ASN{}

	_, ok, err := reader.LookupNetwork(ip, &record)
	if err != nil || !ok {
		return nil, ok, err
	}

	fields := topolib.Fields{}

	fields.SetInt(topolib.FieldASN, int64(record.AutonomousSystemNumber))
	fields.SetString(topolib.FieldASName, record.AutonomousSystemOrganization)
	fields.SetString(topolib.FieldOrganization, record.AutonomousSystemOrganization)

	return fields, true, nil
}

func decodeMMDBISP(reader *maxminddb.Reader, ip net.IP) (topolib.Fields, bool, error) {
	record := geoip2.ISP{}

	_, ok, err := reader.LookupNetwork(ip, &record)
	if err != nil || !ok {
		return nil, ok, err
	}

	fields := topolib.Fields{}

	fields.SetString(topolib.FieldISP, record.ISP)
	fields.SetString(topolib.FieldOrganization, record.Organization)
	fields.SetInt(topolib.FieldASN, int64(record.AutonomousSystemNumber))
	fields.SetString(topolib.FieldASName, record.AutonomousSystemOrganization)

	return fields, true, nil
}

func decodeMMDBAnonymousIP(reader *maxminddb.Reader, ip net.IP) (topolib.Fields, bool, error) {
	record := geoip2.AnonymousIP{}

	_, ok, err := reader.LookupNetwork(ip, &record)
	if err != nil || !ok {
		return nil, ok, err
	}

	fields := topolib.Fields{}

	// codes are the same as IP2Proxy uses
	switch {
	case record.IsTorExitNode:
		fields.SetString(topolib.FieldProxyType, "TOR")
	case record.IsAnonymousVPN:
		fields.SetString(topolib.FieldProxyType, "VPN")
	case record.IsPublicProxy:
		fields.SetString(topolib.FieldProxyType, "PUB")
	case record.IsResidentialProxy:
		fields.SetString(topolib.FieldProxyType, "RES")
	case record.IsHostingProvider:
		fields.SetString(topolib.FieldProxyType, "DCH")
	}

	if record.IsHostingProvider {
		fields.SetString(topolib.FieldUsageType, "DCH")
	}

	return fields, true, nil
}
