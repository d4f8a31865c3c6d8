// Package api is the server's HTTP delivery layer: a chi router, the JSON
// response envelope, and the bearer-token middleware.
package api

import (
	"encoding/json"
	"net/http"
)

// envelope is the uniform response body. Code is the logical result: 200
// means success regardless of payload shape; anything else carries a
// human-readable Message. Transport-level status stays 200 for logical
// failures so that only authentication problems surface as HTTP errors.
type envelope struct {
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

const codeOK = 200

func respondOK(w http.ResponseWriter, data any) {
	respond(w, http.StatusOK, envelope{Code: codeOK, Data: data})
}

func respondFail(w http.ResponseWriter, code int, message string) {
	respond(w, http.StatusOK, envelope{Code: code, Message: message})
}

func respondUnauthorized(w http.ResponseWriter, message string) {
	respond(w, http.StatusUnauthorized, envelope{Code: http.StatusUnauthorized, Message: message})
}

func respond(w http.ResponseWriter, status int, env envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}
