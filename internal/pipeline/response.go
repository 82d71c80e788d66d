package pipeline

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Envelope statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Response is an API reply. It is written as one flat JSON object:
// status, msg and code, plus every Data entry at the top level.
type Response struct {
	HTTPStatus int
	Status     string
	Msg        string
	Code       *int
	Data       map[string]any
}

// Success builds a 200 response carrying data.
func Success(msg string, data map[string]any) *Response {
	return &Response{HTTPStatus: http.StatusOK, Status: StatusSuccess, Msg: msg, Data: data}
}

// Fail builds an error response with a stable numeric code.
func Fail(httpStatus, code int, msg string) *Response {
	return &Response{HTTPStatus: httpStatus, Status: StatusError, Msg: msg, Code: &code}
}

// FailNoCode builds an error response whose code is null.
func FailNoCode(httpStatus int, msg string) *Response {
	return &Response{HTTPStatus: httpStatus, Status: StatusError, Msg: msg}
}

// Generic responses not tied to an endpoint.
var (
	NotFound         = FailNoCode(http.StatusNotFound, "Not found.")
	MethodNotAllowed = FailNoCode(http.StatusMethodNotAllowed, "Method not allowed.")
	InternalError    = FailNoCode(http.StatusInternalServerError, "Internal server error.")
)

// MarshalJSON flattens Data next to the envelope fields. Envelope fields
// win over Data keys with the same name.
func (r *Response) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Data)+3)
	for k, v := range r.Data {
		out[k] = v
	}
	out["status"] = r.Status
	out["msg"] = r.Msg
	if r.Code != nil {
		out["code"] = *r.Code
	} else {
		out["code"] = nil
	}
	return json.Marshal(out)
}

// Write encodes resp to w.
func Write(w http.ResponseWriter, resp *Response) {
	body, err := json.Marshal(resp)
	if err != nil {
		slog.Error("failed to encode response", slog.String("error", err.Error()))
		resp = InternalError
		body, _ = json.Marshal(resp)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.HTTPStatus)
	_, _ = w.Write(append(body, '\n'))
}
