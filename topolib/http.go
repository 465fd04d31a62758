package topolib

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// Outcomes of the resolving which are reported to Observer.
const (
	OutcomeFound    = "found"
	OutcomeNotFound = "not_found"
	OutcomeInvalid  = "invalid"
	OutcomeError    = "error"
)

// Observer receives outcomes of resolving done by HTTP handler. It is
// a hook for metrics.
type Observer interface {
	ObserveResolve(outcome string, elapsed time.Duration)
}

type noopObserver struct{}

func (noopObserver) ObserveResolve(string, time.Duration) {}

type httpHandler struct {
	resolver *Resolver
	observer Observer
}

func (h httpHandler) resolve(raw string) (AttributedRecord, error) {
	started := time.Now()
	record, err := h.resolver.Resolve(raw)

	h.observer.ObserveResolve(outcomeOf(err), time.Since(started))

	return record, err
}

func (h httpHandler) encodeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	encoder := json.NewEncoder(w)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	encoder.SetEscapeHTML(false)
	encoder.Encode(data) // nolint: errcheck
}

func (h httpHandler) sendError(w http.ResponseWriter, e *httpError) {
	h.encodeJSON(w, e.StatusCode(), e)
}

// WriteError writes an error envelope {"error": ..., "ip": ...}. It is
// used by middlewares which reject requests before they reach the
// handler.
func WriteError(w http.ResponseWriter, statusCode int, message, ip string) {
	httpHandler{}.sendError(w, &httpError{
		message:    message,
		ip:         ip,
		statusCode: statusCode,
	})
}

func outcomeOf(err error) string {
	switch e := newResolveHTTPError("", err); {
	case err == nil:
		return OutcomeFound
	case e.StatusCode() == http.StatusNotFound:
		return OutcomeNotFound
	case e.StatusCode() == http.StatusBadRequest:
		return OutcomeInvalid
	}

	return OutcomeError
}

// NewHTTPHandler returns a handler with a following routes:
//
//	GET  /         resolves an address of the caller or ?ip=
//	GET  /{ip}     resolves a given address
//	POST /         resolves a batch: {"ips": [...]}
//	GET  /info     dataset load reports
//	GET  /healthz  liveness probe
//
// Observer can be nil.
func NewHTTPHandler(resolver *Resolver, observer Observer) http.Handler {
	if observer == nil {
		observer = noopObserver{}
	}

	handler := httpHandler{
		resolver: resolver,
		observer: observer,
	}
	router := chi.NewRouter()

	router.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		handler.sendError(w, &httpError{
			message:    "Unknown path",
			statusCode: http.StatusNotFound,
		})
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		handler.sendError(w, &httpError{
			message:    "This HTTP method is not allowed",
			statusCode: http.StatusMethodNotAllowed,
		})
	})

	router.Get("/", handler.handleGetResolve)
	router.Post("/", handler.handlePost)
	router.Get("/info", handler.handleGetInfo)
	router.Get("/healthz", handler.handleGetHealth)
	router.Get("/{ip}", handler.handleGetIP)

	return router
}
