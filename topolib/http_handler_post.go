package topolib

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/qri-io/jsonschema"
)

const handlePostMaxBodySize = 1024 * 1024

var handlePostRequestJSONSchema = func() *jsonschema.Schema {
	data := `{
        "type": "object",
        "required": [
            "ips"
        ],
        "additionalProperties": false,
        "properties": {
            "ips": {
                "type": "array",
                "minItems": 1,
                "maxItems": 1024,
                "items": {
                    "type": "string",
                    "maxLength": 64
                }
            }
        }
    }`

	rv := &jsonschema.Schema{}
	if err := json.Unmarshal([]byte(data), rv); err != nil {
		panic(err)
	}

	return rv
}()

type handlePostRequest struct {
	IPs []string `json:"ips"`
}

type handlePostResponse struct {
	Results []BatchResult `json:"results"`
}

func (h httpHandler) handlePost(w http.ResponseWriter, req *http.Request) {
	if !strings.Contains(req.Header.Get("Content-Type"), "application/json") {
		h.sendError(w, &httpError{
			message:    "Incorrect content type",
			statusCode: http.StatusUnsupportedMediaType,
		})

		return
	}

	bodyBytes, err := io.ReadAll(http.MaxBytesReader(w, req.Body, handlePostMaxBodySize))

	req.Body.Close()

	if err != nil {
		h.sendError(w, &httpError{
			message:    "Cannot read request body",
			err:        err,
			statusCode: http.StatusBadRequest,
		})

		return
	}

	errs, err := handlePostRequestJSONSchema.ValidateBytes(req.Context(), bodyBytes)
	if err != nil {
		h.sendError(w, &httpError{
			message:    "Cannot parse request JSON",
			err:        err,
			statusCode: http.StatusBadRequest,
		})

		return
	}

	if len(errs) > 0 {
		h.sendError(w, &httpError{
			message:    "Invalid request body",
			err:        errs[0],
			statusCode: http.StatusBadRequest,
		})

		return
	}

	parsedRequest := &handlePostRequest{}
	if err := json.Unmarshal(bodyBytes, parsedRequest); err != nil {
		h.sendError(w, &httpError{
			message:    "Cannot parse request JSON",
			err:        err,
			statusCode: http.StatusBadRequest,
		})

		return
	}

	started := time.Now()

	resolved, err := h.resolver.ResolveAll(req.Context(), parsedRequest.IPs)
	if err != nil {
		h.sendError(w, newResolveHTTPError("", err))

		return
	}

	elapsed := time.Since(started)

	for i := range resolved {
		h.observer.ObserveResolve(outcomeOf(resolved[i].Err), elapsed/time.Duration(len(resolved)))
	}

	h.encodeJSON(w, http.StatusOK, handlePostResponse{
		Results: resolved,
	})
}
