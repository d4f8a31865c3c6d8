// Package common holds the handful of sentinel errors shared across the
// server's storage and service layers.
package common

import "errors"

var (
	// ErrorNotFound is returned when a requested record does not exist.
	ErrorNotFound = errors.New("not found")
	// ErrorAlreadyExists is returned on unique-constraint conflicts such as
	// a taken username or email.
	ErrorAlreadyExists = errors.New("already exists")
	// ErrorInvalidCredentials is returned when a login or password check fails.
	ErrorInvalidCredentials = errors.New("invalid credentials")
)
