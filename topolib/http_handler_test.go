package topolib_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/9seconds/ipattrib/topolib"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ObserverMock struct {
	mutex    sync.Mutex
	outcomes []string
}

func (o *ObserverMock) ObserveResolve(outcome string, _ time.Duration) {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	o.outcomes = append(o.outcomes, outcome)
}

func (o *ObserverMock) Outcomes() []string {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	return append([]string{}, o.outcomes...)
}

type HTTPHanderTestSuite struct {
	suite.Suite

	h           http.Handler
	r           *topolib.Resolver
	datasetMock *DatasetMock
	loggerMock  *LoggerMock
	observer    *ObserverMock
	resp        *httptest.ResponseRecorder
}

func (suite *HTTPHanderTestSuite) SetupTest() {
	suite.datasetMock = &DatasetMock{}
	suite.loggerMock = &LoggerMock{}
	suite.observer = &ObserverMock{}

	suite.datasetMock.On("Name").Return("datasetMock").Maybe()
	suite.datasetMock.On("Supports", mock.Anything).Return(true).Maybe()

	r, err := topolib.NewResolver(topolib.ResolverOpts{
		Datasets: []topolib.Dataset{suite.datasetMock},
		Info: []topolib.DatasetInfo{
			{Name: "datasetMock", Kind: "csv", Available: true, Entries: 1},
		},
		Logger:         suite.loggerMock,
		Attribution:    "notice",
		WorkerPoolSize: 10,
	})
	if err != nil {
		panic(err)
	}

	suite.r = r
	suite.h = topolib.NewHTTPHandler(r, suite.observer)
	suite.resp = httptest.NewRecorder()
}

func (suite *HTTPHanderTestSuite) TearDownTest() {
	suite.r.Shutdown()
	suite.datasetMock.AssertExpectations(suite.T())
	suite.loggerMock.AssertExpectations(suite.T())
}

func (suite *HTTPHanderTestSuite) TestIncorrectMethod() {
	suite.h.ServeHTTP(suite.resp, httptest.NewRequest("PATCH", "/", nil))

	suite.Equal(http.StatusMethodNotAllowed, suite.resp.Code)
	suite.JSONEq(`{"error": "This HTTP method is not allowed"}`, suite.resp.Body.String())
}

func (suite *HTTPHanderTestSuite) TestGetSelf() {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "192.168.1.1:5678"

	suite.datasetMock.On("Lookup", addressOf("192.168.1.1")).
		Return(topolib.Fields{topolib.FieldCity: "Nizhniy Novgorod"}, nil).
		Once()

	suite.h.ServeHTTP(suite.resp, req)

	suite.Equal(http.StatusOK, suite.resp.Code)
	suite.Equal("application/json", suite.resp.Header().Get("Content-Type"))
	suite.JSONEq(`{
        "ip": "192.168.1.1",
        "ipType": "IPv4",
        "ipv4": "192.168.1.1",
        "city": "Nizhniy Novgorod",
        "source": "datasetMock",
        "attribution": "notice"
    }`, suite.resp.Body.String())
	suite.Equal([]string{topolib.OutcomeFound}, suite.observer.Outcomes())
}

func (suite *HTTPHanderTestSuite) TestGetSelfWithoutPort() {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "2001:db8::5"

	suite.datasetMock.On("Lookup", addressOf("2001:db8::5")).
		Return(topolib.Fields{topolib.FieldCountryCode: "DE"}, nil).
		Once()

	suite.h.ServeHTTP(suite.resp, req)

	suite.Equal(http.StatusOK, suite.resp.Code)
	suite.Contains(suite.resp.Body.String(), `"ipv6":"2001:db8::5"`)
}

func (suite *HTTPHanderTestSuite) TestGetQuery() {
	suite.datasetMock.On("Lookup", addressOf("8.8.4.4")).
		Return(topolib.Fields{topolib.FieldASN: int64(15169)}, nil).
		Once()

	suite.h.ServeHTTP(suite.resp, httptest.NewRequest("GET", "/?ip=8.8.4.4", nil))

	suite.Equal(http.StatusOK, suite.resp.Code)
	suite.Contains(suite.resp.Body.String(), `"asn":15169`)
}

func (suite *HTTPHanderTestSuite) TestGetIP() {
	suite.datasetMock.On("Lookup", addressOf("8.8.8.8")).
		Return(topolib.Fields{topolib.FieldOrganization: "GOOGLE"}, nil).
		Once()

	suite.h.ServeHTTP(suite.resp, httptest.NewRequest("GET", "/8.8.8.8", nil))

	suite.Equal(http.StatusOK, suite.resp.Code)
	suite.Contains(suite.resp.Body.String(), `"organization":"GOOGLE"`)
}

func (suite *HTTPHanderTestSuite) TestGetLocal() {
	suite.h.ServeHTTP(suite.resp, httptest.NewRequest("GET", "/127.0.0.1", nil))

	suite.Equal(http.StatusBadRequest, suite.resp.Code)
	suite.JSONEq(`{"error": "Invalid or local IP address", "ip": "127.0.0.1"}`,
		suite.resp.Body.String())
	suite.datasetMock.AssertNotCalled(suite.T(), "Lookup", mock.Anything)
	suite.Equal([]string{topolib.OutcomeInvalid}, suite.observer.Outcomes())
}

func (suite *HTTPHanderTestSuite) TestGetNotFound() {
	suite.datasetMock.On("Lookup", mock.Anything).Return(nil, topolib.ErrNoMatch).Once()

	suite.h.ServeHTTP(suite.resp, httptest.NewRequest("GET", "/10.1.1.1", nil))

	suite.Equal(http.StatusNotFound, suite.resp.Code)
	suite.JSONEq(`{"error": "IP address not found in databases", "ip": "10.1.1.1"}`,
		suite.resp.Body.String())
	suite.Equal([]string{topolib.OutcomeNotFound}, suite.observer.Outcomes())
}

func (suite *HTTPHanderTestSuite) TestGetUnkownPath() {
	suite.h.ServeHTTP(suite.resp, httptest.NewRequest("GET", "/lalala/lalala", nil))

	suite.Equal(http.StatusNotFound, suite.resp.Code)
}

func (suite *HTTPHanderTestSuite) TestGetInfo() {
	suite.h.ServeHTTP(suite.resp, httptest.NewRequest("GET", "/info", nil))

	suite.Equal(http.StatusOK, suite.resp.Code)
	suite.JSONEq(`{"results": [{
        "name": "datasetMock",
        "kind": "csv",
        "families": [],
        "available": true,
        "entries": 1,
        "skipped": 0,
        "overlaps": 0,
        "loaded_at": 0
    }]}`, suite.resp.Body.String())
}

func (suite *HTTPHanderTestSuite) TestGetHealth() {
	suite.h.ServeHTTP(suite.resp, httptest.NewRequest("GET", "/healthz", nil))

	suite.Equal(http.StatusOK, suite.resp.Code)
	suite.JSONEq(`{"status": "ok"}`, suite.resp.Body.String())
}

func (suite *HTTPHanderTestSuite) TestPostUnsupportedMediaType() {
	req := httptest.NewRequest("POST", "/", strings.NewReader("{}"))

	suite.h.ServeHTTP(suite.resp, req)

	suite.Equal(http.StatusUnsupportedMediaType, suite.resp.Code)
}

func (suite *HTTPHanderTestSuite) TestPostBadRequest() {
	for _, body := range []string{"{}", `{"ips": []}`, `{"ips": [1]}`, `{"ips": ["1.1.1.1"], "x": 1}`, "{"} {
		resp := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/", strings.NewReader(body))
		req.Header.Add("Content-Type", "application/json")

		suite.h.ServeHTTP(resp, req)

		suite.Equal(http.StatusBadRequest, resp.Code, body)
	}
}

func (suite *HTTPHanderTestSuite) TestPostOk() {
	req := httptest.NewRequest("POST",
		"/",
		strings.NewReader(`{"ips": ["192.168.1.1", "localhost", "10.0.0.1"]}`))
	req.Header.Add("Content-Type", "application/json; charset=utf-8")

	suite.datasetMock.On("Lookup", addressOf("192.168.1.1")).
		Return(topolib.Fields{topolib.FieldCity: "Nizhniy Novgorod"}, nil).
		Once()
	suite.datasetMock.On("Lookup", addressOf("10.0.0.1")).
		Return(nil, topolib.ErrNoMatch).
		Once()

	suite.h.ServeHTTP(suite.resp, req)

	suite.Equal(http.StatusOK, suite.resp.Code)
	suite.JSONEq(`{"results": [
        {"ip": "192.168.1.1", "ipType": "IPv4", "ipv4": "192.168.1.1",
         "city": "Nizhniy Novgorod", "source": "datasetMock", "attribution": "notice"},
        {"error": "Invalid or local IP address", "ip": "localhost"},
        {"error": "IP address not found in databases", "ip": "10.0.0.1"}
    ]}`, suite.resp.Body.String())
	suite.ElementsMatch([]string{
		topolib.OutcomeFound,
		topolib.OutcomeInvalid,
		topolib.OutcomeNotFound,
	}, suite.observer.Outcomes())
}

func (suite *HTTPHanderTestSuite) TestWriteError() {
	topolib.WriteError(suite.resp, http.StatusTooManyRequests, topolib.MessageTooManyRequests, "1.2.3.4")

	suite.Equal(http.StatusTooManyRequests, suite.resp.Code)
	suite.Equal("application/json", suite.resp.Header().Get("Content-Type"))
	suite.JSONEq(`{"error": "Too many requests", "ip": "1.2.3.4"}`, suite.resp.Body.String())
}

func TestHTTPHandler(t *testing.T) {
	suite.Run(t, &HTTPHanderTestSuite{})
}
