package main

import (
	"crypto/subtle"
	"net/http"

	"github.com/9seconds/ipattrib/topolib"
)

type basicAuthMiddleware struct {
	handler  http.Handler
	user     []byte
	password []byte
}

func (b *basicAuthMiddleware) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	user, pass, _ := req.BasicAuth()

	userBytes := []byte(user)
	passBytes := []byte(pass)

	if subtle.ConstantTimeCompare(b.user, userBytes)+subtle.ConstantTimeCompare(b.password, passBytes) == 2 {
		b.handler.ServeHTTP(w, req)

		return
	}

	w.Header().Set("WWW-Authenticate", `Basic realm="Restricted"`)
	topolib.WriteError(w, http.StatusUnauthorized, "Authentication is required", "")
}

func newBasicAuthMiddleware(user, password string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return &basicAuthMiddleware{
			handler:  next,
			user:     []byte(user),
			password: []byte(password),
		}
	}
}
