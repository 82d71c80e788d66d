// Package pipeline runs API requests through an ordered chain of guards
// before the endpoint: shape validation, token authentication, then the
// business stage. The first guard that answers ends the request.
package pipeline

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/ugmi/ugmi/internal/model"
)

// Request is the state shared by the stages of one API call.
type Request struct {
	HTTP *http.Request
	// Payload is the decoded JSON object body, or nil when the body is
	// missing, not JSON, or not an object.
	Payload map[string]any
	// User is set by RequireToken.
	User *model.User
}

// Guard inspects a request and either returns nil to continue or a
// response that ends the request.
type Guard func(req *Request) *Response

// Endpoint is the business stage. It must return a response.
type Endpoint func(req *Request) *Response

// Handler decodes the JSON body, runs guards in order and then endpoint.
func Handler(endpoint Endpoint, guards ...Guard) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := &Request{HTTP: r, Payload: decodePayload(r)}

		for _, guard := range guards {
			if resp := guard(req); resp != nil {
				Write(w, resp)
				return
			}
		}

		resp := endpoint(req)
		if resp == nil {
			resp = InternalError
		}
		Write(w, resp)
	})
}

// decodePayload returns the body as a JSON object when the request declares
// a JSON content type and the body is exactly one object.
func decodePayload(r *http.Request) map[string]any {
	if r.Body == nil || !isJSON(r.Header.Get("Content-Type")) {
		return nil
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var payload map[string]any
	if err := dec.Decode(&payload); err != nil {
		return nil
	}
	// Trailing data after the object is not a valid body.
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil
	}
	return payload
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json"
}
