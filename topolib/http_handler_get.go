package topolib

import (
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (h httpHandler) handleGetResolve(w http.ResponseWriter, req *http.Request) {
	if ip := req.URL.Query().Get("ip"); ip != "" {
		h.handleResolve(w, ip)

		return
	}

	// RemoteAddr has no port if it was rewritten by a proxy header
	// middleware.
	host, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		host = req.RemoteAddr
	}

	h.handleResolve(w, host)
}

func (h httpHandler) handleGetIP(w http.ResponseWriter, req *http.Request) {
	h.handleResolve(w, chi.URLParam(req, "ip"))
}

func (h httpHandler) handleResolve(w http.ResponseWriter, ip string) {
	resolved, err := h.resolve(ip)
	if err != nil {
		h.sendError(w, newResolveHTTPError(ip, err))

		return
	}

	h.encodeJSON(w, http.StatusOK, resolved)
}

func (h httpHandler) handleGetInfo(w http.ResponseWriter, _ *http.Request) {
	response := struct {
		Results []DatasetInfo `json:"results"`
	}{
		Results: h.resolver.DatasetInfo(),
	}

	h.encodeJSON(w, http.StatusOK, response)
}

func (h httpHandler) handleGetHealth(w http.ResponseWriter, _ *http.Request) {
	h.encodeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
