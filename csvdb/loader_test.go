package csvdb_test

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"testing"

	"github.com/9seconds/ipattrib/csvdb"
	"github.com/9seconds/ipattrib/topolib"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/suite"
)

type LoaderTestSuite struct {
	suite.Suite

	fs afero.Fs
}

func (suite *LoaderTestSuite) SetupTest() {
	suite.fs = afero.NewMemMapFs()
}

func (suite *LoaderTestSuite) writeFile(name, content string) {
	suite.NoError(afero.WriteFile(suite.fs, name, []byte(content), 0644))
}

func (suite *LoaderTestSuite) opts(columns ...string) csvdb.Options {
	schema, err := csvdb.ParseSchema(columns, "", []string{"This parameter is unavailable"})

	suite.NoError(err)

	return csvdb.Options{
		Name:   "test",
		Family: topolib.FamilyIPv4,
		Schema: schema,
	}
}

func (suite *LoaderTestSuite) lookup(table *topolib.RangeTable, ip string) (topolib.Fields, bool) {
	addr, err := topolib.Normalize(ip)

	suite.NoError(err)

	entry, ok := table.Lookup(addr.Ordinal)

	return entry.Fields, ok
}

func (suite *LoaderTestSuite) TestOneGoodOneMalformed() {
	suite.writeFile("/data.csv", `"16777216","16777471","AU","Australia"
"garbage","16777471","AU","Australia"
`)

	table, stats, err := csvdb.Load(suite.fs, "/data.csv", suite.opts("countryCode", "country"))

	suite.NoError(err)
	suite.Equal(1, table.Len())
	suite.Equal(1, stats.Entries)
	suite.Equal(1, stats.Skipped)
	suite.False(stats.Missing)

	fields, ok := suite.lookup(table, "1.0.0.1")

	suite.True(ok)
	suite.Equal("AU", fields[topolib.FieldCountryCode])
	suite.Equal("Australia", fields[topolib.FieldCountry])
}

func (suite *LoaderTestSuite) TestMissingFile() {
	table, stats, err := csvdb.Load(suite.fs, "/nope.csv", suite.opts("city"))

	suite.NoError(err)
	suite.True(stats.Missing)
	suite.Zero(table.Len())

	_, ok := suite.lookup(table, "1.1.1.1")

	suite.False(ok)
}

func (suite *LoaderTestSuite) TestMalformedVariants() {
	suite.writeFile("/data.csv", `1
1,2,Moscow
3,x,Paris
10,5,Berlin
6,7
8,1.2.3.4.5,Rome
`)

	table, stats, err := csvdb.Load(suite.fs, "/data.csv", suite.opts("city"))

	suite.NoError(err)
	suite.Equal(2, stats.Entries)
	suite.Equal(4, stats.Skipped)
	suite.Equal(2, table.Len())
}

func (suite *LoaderTestSuite) TestSentinelsAndKinds() {
	suite.writeFile("/data.csv", `1.0.0.0,1.0.0.255,-,Brisbane,-27.46794,153.02809,-,13335,This parameter is unavailable
2.0.0.0,2.0.0.255,FR,,0,0,10000,x,
`)

	opts := suite.opts("countryCode", "city", "latitude:float", "longitude:float", "elevation:int", "asn:int", "isp")
	table, stats, err := csvdb.Load(suite.fs, "/data.csv", opts)

	suite.NoError(err)
	suite.Equal(2, stats.Entries)

	fields, ok := suite.lookup(table, "1.0.0.10")

	suite.True(ok)
	suite.Equal(topolib.Fields{
		topolib.FieldCity:      "Brisbane",
		topolib.FieldLatitude:  -27.46794,
		topolib.FieldLongitude: 153.02809,
		topolib.FieldASN:       int64(13335),
	}, fields)

	fields, ok = suite.lookup(table, "2.0.0.10")

	suite.True(ok)
	suite.Equal(topolib.Fields{
		topolib.FieldCountryCode: "FR",
		topolib.FieldCountry:     "France",
		topolib.FieldLatitude:    0.0,
		topolib.FieldLongitude:   0.0,
		topolib.FieldElevation:   int64(10000),
	}, fields)
}

func (suite *LoaderTestSuite) TestSkipColumn() {
	suite.writeFile("/data.csv", "1.0.0.0,1.0.0.255,ignored,Brisbane\n")

	table, _, err := csvdb.Load(suite.fs, "/data.csv", suite.opts("-", "city"))

	suite.NoError(err)

	fields, ok := suite.lookup(table, "1.0.0.1")

	suite.True(ok)
	suite.Equal(topolib.Fields{topolib.FieldCity: "Brisbane"}, fields)
}

func (suite *LoaderTestSuite) TestUnsortedWithOverlaps() {
	suite.writeFile("/data.csv", `3.0.0.0,3.0.0.255,Third
1.0.0.0,1.0.0.255,First
1.0.0.128,1.0.1.255,Overlap
2.0.0.0,2.0.0.255,Second
`)

	table, stats, err := csvdb.Load(suite.fs, "/data.csv", suite.opts("city"))

	suite.NoError(err)
	suite.Equal(3, stats.Entries)
	suite.Equal(1, stats.Overlaps)

	fields, ok := suite.lookup(table, "1.0.0.200")

	suite.True(ok)
	suite.Equal("First", fields[topolib.FieldCity])

	_, ok = suite.lookup(table, "1.0.1.1")

	suite.False(ok)

	fields, ok = suite.lookup(table, "3.0.0.255")

	suite.True(ok)
	suite.Equal("Third", fields[topolib.FieldCity])
}

func (suite *LoaderTestSuite) TestInterning() {
	suite.writeFile("/data.csv", `1.0.0.0,1.0.0.255,Paris
2.0.0.0,2.0.0.255,Paris
`)

	table, _, err := csvdb.Load(suite.fs, "/data.csv", suite.opts("city"))

	suite.NoError(err)

	first, _ := suite.lookup(table, "1.0.0.1")
	second, _ := suite.lookup(table, "2.0.0.1")

	first[topolib.FieldRegion] = "shared"

	suite.Equal("shared", second[topolib.FieldRegion])
}

func (suite *LoaderTestSuite) TestGzip() {
	buf := bytes.Buffer{}
	writer := gzip.NewWriter(&buf)

	writer.Write([]byte("1.0.0.0,1.0.0.255,Brisbane\n")) // nolint: errcheck
	writer.Close()

	suite.writeFile("/data.csv.gz", buf.String())

	table, stats, err := csvdb.Load(suite.fs, "/data.csv.gz", suite.opts("city"))

	suite.NoError(err)
	suite.Equal(1, stats.Entries)

	fields, ok := suite.lookup(table, "1.0.0.1")

	suite.True(ok)
	suite.Equal("Brisbane", fields[topolib.FieldCity])
}

func (suite *LoaderTestSuite) TestBrokenGzip() {
	suite.writeFile("/data.csv.gz", "not a gzip")

	_, _, err := csvdb.Load(suite.fs, "/data.csv.gz", suite.opts("city"))

	suite.Error(err)
}

func (suite *LoaderTestSuite) TestZip() {
	buf := bytes.Buffer{}
	writer := zip.NewWriter(&buf)

	readme, _ := writer.Create("README.txt")
	readme.Write([]byte("not a csv")) // nolint: errcheck

	data, _ := writer.Create("IP2LOCATION-LITE-DB1.CSV")
	data.Write([]byte("16777216,16777471,AU,Australia\n")) // nolint: errcheck

	writer.Close()

	suite.writeFile("/db.zip", buf.String())

	table, stats, err := csvdb.Load(suite.fs, "/db.zip", suite.opts("countryCode", "country"))

	suite.NoError(err)
	suite.Equal(1, stats.Entries)
	suite.Zero(stats.Skipped)

	fields, ok := suite.lookup(table, "1.0.0.1")

	suite.True(ok)
	suite.Equal("Australia", fields[topolib.FieldCountry])
}

func (suite *LoaderTestSuite) TestCIDRBounds() {
	suite.writeFile("/data.csv", "network,proxy\n1.0.0.0/24,VPN\n2.0.0.0/8,TOR\n")

	schema, err := csvdb.ParseSchema([]string{"proxyType"}, "cidr", nil)

	suite.NoError(err)

	table, stats, err := csvdb.Load(suite.fs, "/data.csv", csvdb.Options{
		Name:   "proxies",
		Family: topolib.FamilyIPv4,
		Schema: schema,
	})

	suite.NoError(err)
	suite.Equal(2, stats.Entries)
	suite.Equal(1, stats.Skipped)

	fields, ok := suite.lookup(table, "2.255.255.255")

	suite.True(ok)
	suite.Equal("TOR", fields[topolib.FieldProxyType])
}

func (suite *LoaderTestSuite) TestIPv6Table() {
	suite.writeFile("/data.csv", `"42540766411282592856903984951653826560","42540766490510755371168322545197776895","NL"
"2001:db9::","2001:db9::ffff","DE"
`)

	schema, err := csvdb.ParseSchema([]string{"countryCode"}, "range", nil)

	suite.NoError(err)

	table, stats, err := csvdb.Load(suite.fs, "/data.csv", csvdb.Options{
		Name:   "v6",
		Family: topolib.FamilyIPv6,
		Schema: schema,
	})

	suite.NoError(err)
	suite.Equal(2, stats.Entries)

	fields, ok := suite.lookup(table, "2001:db8::1")

	suite.True(ok)
	suite.Equal("NL", fields[topolib.FieldCountryCode])

	fields, ok = suite.lookup(table, "2001:db9::1")

	suite.True(ok)
	suite.Equal("DE", fields[topolib.FieldCountryCode])
}

func TestLoader(t *testing.T) {
	suite.Run(t, &LoaderTestSuite{})
}
