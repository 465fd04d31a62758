package topolib

import (
	"encoding/json"
	"errors"
	"net/http"
)

const (
	ReasonLocalOrEmpty = "local-or-empty"
	ReasonMalformed    = "malformed"

	MessageInvalidAddress  = "Invalid or local IP address"
	MessageNotFound        = "IP address not found in databases"
	MessageTooManyRequests = "Too many requests"
)

var (
	ErrResolverShutdown = errors.New("resolver instance was shutdown")
	ErrContextIsClosed  = errors.New("context is closed")

	// ErrInvalidAddress is matched by every *InvalidAddressError with
	// errors.Is.
	ErrInvalidAddress = errors.New("invalid or local ip address")

	// ErrNotFound is returned if address is valid but none of datasets
	// has a match for it.
	ErrNotFound = errors.New("ip address not found in databases")

	// ErrNoMatch is returned by Dataset.Lookup if dataset has nothing
	// for a given address. This is a normal outcome, not a failure.
	ErrNoMatch = errors.New("no match")

	// ErrLookupPanic wraps a panic recovered from Dataset.Lookup.
	ErrLookupPanic = errors.New("dataset lookup has panicked")
)

// InvalidAddressError is returned by Normalize.
type InvalidAddressError struct {
	Raw    string
	Reason string
}

func (i *InvalidAddressError) Error() string {
	return "invalid address " + `"` + i.Raw + `"` + ": " + i.Reason
}

func (i *InvalidAddressError) Is(target error) bool {
	return target == ErrInvalidAddress
}

type jsonHTTPError struct {
	Error string `json:"error"`
	IP    string `json:"ip,omitempty"`
}

type httpError struct {
	message    string
	ip         string
	err        error
	statusCode int
}

func (h *httpError) Message() string {
	if h == nil {
		return ""
	}

	return h.message
}

func (h *httpError) IP() string {
	if h == nil {
		return ""
	}

	return h.ip
}

func (h *httpError) StatusCode() int {
	if h != nil && h.statusCode != 0 {
		return h.statusCode
	}

	return http.StatusInternalServerError
}

func (h *httpError) Unwrap() error {
	if h == nil {
		return nil
	}

	return h.err
}

func (h *httpError) Error() string {
	switch {
	case h == nil:
		return ""
	case h.err != nil && h.message != "":
		return h.message + ": " + h.err.Error()
	case h.err != nil:
		return h.err.Error()
	}

	return h.message
}

func (h *httpError) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonHTTPError{
		Error: h.Message(),
		IP:    h.IP(),
	})
}

// newResolveHTTPError maps resolver errors to the error envelopes
// clients see.
func newResolveHTTPError(ip string, err error) *httpError {
	switch {
	case errors.Is(err, ErrInvalidAddress):
		return &httpError{
			message:    MessageInvalidAddress,
			ip:         ip,
			err:        err,
			statusCode: http.StatusBadRequest,
		}
	case errors.Is(err, ErrNotFound):
		return &httpError{
			message:    MessageNotFound,
			ip:         ip,
			err:        err,
			statusCode: http.StatusNotFound,
		}
	case errors.Is(err, ErrResolverShutdown):
		return &httpError{
			message:    "Service is shutting down",
			ip:         ip,
			err:        err,
			statusCode: http.StatusServiceUnavailable,
		}
	}

	return &httpError{
		message: "Cannot resolve IP address",
		ip:      ip,
		err:     err,
	}
}
