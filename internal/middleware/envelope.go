package middleware

import (
	"encoding/json"
	"net/http"
)

// errorEnvelope is the API error body for failures raised outside the
// endpoints themselves. Code is always null there.
type errorEnvelope struct {
	Status string `json:"status"`
	Msg    string `json:"msg"`
	Code   *int   `json:"code"`
}

// Messages for middleware-raised errors.
const (
	msgInternalError   = "Internal server error."
	msgTooManyRequests = "Too many requests."
	msgBodyTooLarge    = "Request body too large."
)

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorEnvelope{Status: "error", Msg: msg})
}
