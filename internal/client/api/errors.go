package api

import (
	"errors"
	"fmt"
)

// Sentinel errors for the conditions callers branch on.
var (
	// ErrUnauthorized matches any *Error with KindUnauthorized via errors.Is.
	ErrUnauthorized = errors.New("unauthorized")
)

// Kind distinguishes the failure classes of an API call. Transport and
// logical failures are deliberately separate kinds so callers never have to
// string-match messages.
type Kind string

const (
	// KindTransport covers network failures and non-2xx statuses other
	// than 401.
	KindTransport Kind = "transport"
	// KindAPI covers logical failures: transport success with a non-200
	// envelope code.
	KindAPI Kind = "api"
	// KindUnauthorized is an HTTP 401: the session token was rejected.
	KindUnauthorized Kind = "unauthorized"
	// KindDecode covers malformed response bodies.
	KindDecode Kind = "decode"
)

// Error is the one error type returned by the API client.
type Error struct {
	Kind       Kind
	HTTPStatus int
	Code       int    // envelope code for KindAPI, 0 otherwise
	Message    string // human-readable, safe to show the user
	cause      error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.cause != nil {
		return e.cause.Error()
	}
	return fmt.Sprintf("api error (%s)", e.Kind)
}

func (e *Error) Unwrap() error { return e.cause }

// Is lets errors.Is(err, ErrUnauthorized) match unauthorized errors without
// exposing a second type.
func (e *Error) Is(target error) bool {
	return target == ErrUnauthorized && e.Kind == KindUnauthorized
}

// IsUnauthorized reports whether err is a rejected-session failure.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

func transportError(status int, msg string, cause error) *Error {
	return &Error{Kind: KindTransport, HTTPStatus: status, Message: msg, cause: cause}
}

func decodeError(cause error) *Error {
	return &Error{Kind: KindDecode, Message: "malformed server response", cause: cause}
}
