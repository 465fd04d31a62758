package main

import (
	"net"
	"net/http"
	"strconv"

	"github.com/9seconds/ipattrib/admission"
	"github.com/9seconds/ipattrib/topolib"
)

type admissionMiddleware struct {
	handler http.Handler
	counter *admission.Counter
	log     *logger
	stats   *metrics
}

func (a *admissionMiddleware) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	key := callerKey(req)

	allowed, err := a.counter.Allow(req.Context(), key)
	if err != nil {
		a.log.AdmissionError(key, err)
	}

	if allowed {
		a.handler.ServeHTTP(w, req)

		return
	}

	a.log.AdmissionRejected(key)
	a.stats.ObserveRejection()

	w.Header().Set("Retry-After", strconv.Itoa(int(a.counter.Window().Seconds())))
	topolib.WriteError(w, http.StatusTooManyRequests, topolib.MessageTooManyRequests, key)
}

// callerKey is a host part of RemoteAddr. If proxy headers are
// trusted, RealIP middleware has already put a client address there.
func callerKey(req *http.Request) string {
	host, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		return req.RemoteAddr
	}

	return host
}

func newAdmissionMiddleware(counter *admission.Counter, log *logger, stats *metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return &admissionMiddleware{
			handler: next,
			counter: counter,
			log:     log,
			stats:   stats,
		}
	}
}
