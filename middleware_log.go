package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

func newLogMiddleware(log *logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			started := time.Now()
			wrapped := middleware.NewWrapResponseWriter(w, req.ProtoMajor)

			defer func() {
				log.httpLog.Debug().
					Str("method", req.Method).
					Str("path", req.URL.Path).
					Str("remote_addr", req.RemoteAddr).
					Int("status", wrapped.Status()).
					Int("bytes", wrapped.BytesWritten()).
					Dur("duration", time.Since(started)).
					Msg("")
			}()

			next.ServeHTTP(wrapped, req)
		})
	}
}
