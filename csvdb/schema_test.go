package csvdb_test

import (
	"errors"
	"testing"

	"github.com/9seconds/ipattrib/csvdb"
	"github.com/9seconds/ipattrib/topolib"
	"github.com/stretchr/testify/suite"
)

type SchemaTestSuite struct {
	suite.Suite
}

func (suite *SchemaTestSuite) TestParse() {
	schema, err := csvdb.ParseSchema([]string{"countryCode", "-", "latitude:float", "asn:int", "timeZone"}, "", []string{"N/A"})

	suite.NoError(err)
	suite.Equal(csvdb.BoundsRange, schema.Bounds)
	suite.Equal([]csvdb.Column{
		{Field: topolib.FieldCountryCode, Kind: csvdb.KindString},
		{Skip: true},
		{Field: topolib.FieldLatitude, Kind: csvdb.KindFloat},
		{Field: topolib.FieldASN, Kind: csvdb.KindInt},
		{Field: topolib.FieldTimezone, Kind: csvdb.KindString},
	}, schema.Columns)
	suite.Contains(schema.Sentinels, "N/A")
	suite.Contains(schema.Sentinels, "-")
	suite.Contains(schema.Sentinels, "")
}

func (suite *SchemaTestSuite) TestCIDR() {
	schema, err := csvdb.ParseSchema([]string{"city"}, "CIDR", nil)

	suite.NoError(err)
	suite.Equal(csvdb.BoundsCIDR, schema.Bounds)
}

func (suite *SchemaTestSuite) TestErrors() {
	_, err := csvdb.ParseSchema([]string{"city"}, "ranges", nil)

	suite.Error(err)

	_, err = csvdb.ParseSchema([]string{"color"}, "", nil)

	suite.Error(err)

	_, err = csvdb.ParseSchema([]string{"asn:bigint"}, "", nil)

	suite.Error(err)

	_, err = csvdb.ParseSchema([]string{"city", "city"}, "", nil)

	suite.Error(err)

	_, err = csvdb.ParseSchema([]string{"-", "-"}, "", nil)

	suite.True(errors.Is(err, csvdb.ErrEmptySchema))
}

func TestSchema(t *testing.T) {
	suite.Run(t, &SchemaTestSuite{})
}
