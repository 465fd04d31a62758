package topolib_test

import (
	"testing"

	"github.com/9seconds/ipattrib/topolib"
	"github.com/stretchr/testify/suite"
)

type PrecedenceTestSuite struct {
	suite.Suite
}

func (suite *PrecedenceTestSuite) TestDefaultIsNamesOrder() {
	p, err := topolib.NewPrecedence([]string{"a", "b", "c"}, topolib.PrecedenceConfig{})

	suite.NoError(err)

	for _, field := range topolib.FieldsOrder {
		suite.Equal([]string{"a", "b", "c"}, p.Order(field))
	}
}

func (suite *PrecedenceTestSuite) TestTotal() {
	p, err := topolib.NewPrecedence([]string{"a", "b", "c"}, topolib.PrecedenceConfig{
		Default: []string{"c"},
		Fields: map[topolib.Field][]string{
			topolib.FieldProxyType: {"b"},
		},
	})

	suite.NoError(err)
	suite.Equal([]string{"c", "a", "b"}, p.Order(topolib.FieldCountry))
	suite.Equal([]string{"b", "c", "a"}, p.Order(topolib.FieldProxyType))
}

func (suite *PrecedenceTestSuite) TestUnknownDataset() {
	_, err := topolib.NewPrecedence([]string{"a"}, topolib.PrecedenceConfig{
		Default: []string{"x"},
	})

	suite.Error(err)

	_, err = topolib.NewPrecedence([]string{"a"}, topolib.PrecedenceConfig{
		Fields: map[topolib.Field][]string{
			topolib.FieldCity: {"x"},
		},
	})

	suite.Error(err)
}

func (suite *PrecedenceTestSuite) TestDuplicate() {
	_, err := topolib.NewPrecedence([]string{"a", "b"}, topolib.PrecedenceConfig{
		Default: []string{"a", "a"},
	})

	suite.Error(err)
}

func (suite *PrecedenceTestSuite) TestUnknownField() {
	_, err := topolib.NewPrecedence([]string{"a"}, topolib.PrecedenceConfig{
		Fields: map[topolib.Field][]string{
			topolib.Field("color"): {"a"},
		},
	})

	suite.Error(err)
}

func (suite *PrecedenceTestSuite) TestParseField() {
	field, err := topolib.ParseField("timeZone")

	suite.NoError(err)
	suite.Equal(topolib.FieldTimezone, field)

	field, err = topolib.ParseField("postalCode")

	suite.NoError(err)
	suite.Equal(topolib.FieldZipCode, field)

	field, err = topolib.ParseField("asn")

	suite.NoError(err)
	suite.Equal(topolib.FieldASN, field)

	_, err = topolib.ParseField("color")

	suite.Error(err)
}

func TestPrecedence(t *testing.T) {
	suite.Run(t, &PrecedenceTestSuite{})
}
