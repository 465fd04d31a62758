package topolib

import (
	"fmt"
	"strings"
)

// Field is a name of the attribute resolver can emit.
type Field string

const (
	FieldCountry            Field = "country"
	FieldCountryCode        Field = "countryCode"
	FieldRegion             Field = "region"
	FieldCity               Field = "city"
	FieldLatitude           Field = "latitude"
	FieldLongitude          Field = "longitude"
	FieldTimezone           Field = "timezone"
	FieldZipCode            Field = "zipCode"
	FieldISP                Field = "isp"
	FieldOrganization       Field = "organization"
	FieldASN                Field = "asn"
	FieldASName             Field = "asName"
	FieldProxyType          Field = "proxyType"
	FieldThreat             Field = "threat"
	FieldProvider           Field = "provider"
	FieldUsageType          Field = "usageType"
	FieldNetspeed           Field = "netspeed"
	FieldIDDCode            Field = "iddCode"
	FieldElevation          Field = "elevation"
	FieldWeatherStationName Field = "weatherStationName"
)

// FieldsOrder is a canonical order of fields. This is an order of keys
// in JSON output and an order in which sources are credited.
var FieldsOrder = []Field{
	FieldCountry,
	FieldCountryCode,
	FieldRegion,
	FieldCity,
	FieldLatitude,
	FieldLongitude,
	FieldTimezone,
	FieldZipCode,
	FieldISP,
	FieldOrganization,
	FieldASN,
	FieldASName,
	FieldProxyType,
	FieldThreat,
	FieldProvider,
	FieldUsageType,
	FieldNetspeed,
	FieldIDDCode,
	FieldElevation,
	FieldWeatherStationName,
}

var fieldAliases = map[string]Field{
	"timeZone":   FieldTimezone,
	"postalCode": FieldZipCode,
}

var knownFields = func() map[Field]struct{} {
	rv := make(map[Field]struct{}, len(FieldsOrder))

	for _, v := range FieldsOrder {
		rv[v] = struct{}{}
	}

	return rv
}()

// ParseField returns a canonical field for the given name. Aliases like
// timeZone or postalCode are accepted.
func ParseField(name string) (Field, error) {
	name = strings.TrimSpace(name)

	if alias, ok := fieldAliases[name]; ok {
		return alias, nil
	}

	if _, ok := knownFields[Field(name)]; ok {
		return Field(name), nil
	}

	return "", fmt.Errorf("unknown field %s", name)
}

// Fields is a partial result of the dataset lookup. Values are strings,
// int64 or float64. Absent fields are not in the map.
type Fields map[Field]interface{}

// SetString sets a value if it is not empty.
func (f Fields) SetString(field Field, value string) {
	if value = strings.TrimSpace(value); value != "" {
		f[field] = value
	}
}

// SetInt sets a value if it is not zero.
func (f Fields) SetInt(field Field, value int64) {
	if value != 0 {
		f[field] = value
	}
}

// SetFloat sets a value if it is not zero.
func (f Fields) SetFloat(field Field, value float64) {
	if value != 0 {
		f[field] = value
	}
}

// SetCoordinates sets latitude and longitude. Zero point is treated as
// absence of the data: databases use it as a placeholder.
func (f Fields) SetCoordinates(latitude, longitude float64) {
	if latitude == 0 && longitude == 0 {
		return
	}

	f[FieldLatitude] = latitude
	f[FieldLongitude] = longitude
}

// SetCountryCode normalizes a code and fills a country name if it is
// absent.
func (f Fields) SetCountryCode(code string) {
	code = NormalizeAlpha2Code(code)
	if code == "" {
		return
	}

	f[FieldCountryCode] = code

	if _, ok := f[FieldCountry]; !ok {
		f.SetString(FieldCountry, CountryName(code))
	}
}
