package topolib

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/suite"
)

type HTTPErrorTestSuite struct {
	suite.Suite

	e *httpError
}

func (suite *HTTPErrorTestSuite) SetupTest() {
	suite.e = &httpError{}
}

func (suite *HTTPErrorTestSuite) TestNil() {
	var err *httpError

	suite.Equal("", err.Message())
	suite.Equal("", err.IP())
	suite.Equal(http.StatusInternalServerError, err.StatusCode())
	suite.Nil(err.Unwrap())
	suite.Nil(errors.Unwrap(err))
	suite.Equal("", err.Error())

	data, e := json.Marshal(err)

	suite.NoError(e)
	suite.JSONEq("null", string(data))
}

func (suite *HTTPErrorTestSuite) TestStatusCode() {
	suite.Equal(http.StatusInternalServerError, suite.e.StatusCode())

	suite.e.statusCode = http.StatusOK

	suite.Equal(http.StatusOK, suite.e.StatusCode())
}

func (suite *HTTPErrorTestSuite) TestUnwrap() {
	suite.Nil(suite.e.Unwrap())

	suite.e.err = io.EOF

	suite.Equal(io.EOF, errors.Unwrap(suite.e))
	suite.True(errors.Is(suite.e, io.EOF))
}

func (suite *HTTPErrorTestSuite) TestError() {
	suite.EqualError(suite.e, "")

	suite.e.message = "message"

	suite.EqualError(suite.e, "message")

	suite.e.message = ""
	suite.e.err = io.EOF

	suite.EqualError(suite.e, "EOF")

	suite.e.message = "msg"

	suite.EqualError(suite.e, "msg: EOF")
}

func (suite *HTTPErrorTestSuite) TestJSON() {
	data, err := json.Marshal(suite.e)

	suite.NoError(err)
	suite.JSONEq(`{"error": ""}`, string(data))

	suite.e.message = "Msg"
	suite.e.ip = "1.1.1.1"
	suite.e.err = io.EOF
	data, err = json.Marshal(suite.e)

	suite.NoError(err)
	suite.JSONEq(`{"error": "Msg", "ip": "1.1.1.1"}`, string(data))
}

func (suite *HTTPErrorTestSuite) TestResolveErrors() {
	_, invalid := Normalize("localhost")

	e := newResolveHTTPError("localhost", invalid)

	suite.Equal(http.StatusBadRequest, e.StatusCode())
	suite.Equal(MessageInvalidAddress, e.Message())

	e = newResolveHTTPError("1.1.1.1", ErrNotFound)

	suite.Equal(http.StatusNotFound, e.StatusCode())
	suite.Equal(MessageNotFound, e.Message())

	e = newResolveHTTPError("1.1.1.1", ErrResolverShutdown)

	suite.Equal(http.StatusServiceUnavailable, e.StatusCode())

	e = newResolveHTTPError("1.1.1.1", io.EOF)

	suite.Equal(http.StatusInternalServerError, e.StatusCode())
}

func (suite *HTTPErrorTestSuite) TestInvalidAddressError() {
	_, err := Normalize("1.2.3")

	suite.True(errors.Is(err, ErrInvalidAddress))

	var e *InvalidAddressError

	suite.True(errors.As(err, &e))
	suite.Equal(ReasonMalformed, e.Reason)
	suite.Equal("1.2.3", e.Raw)
}

func TestHTTPError(t *testing.T) {
	suite.Run(t, &HTTPErrorTestSuite{})
}
