// Package api implements the network layer of the guest client: a base
// HTTP client with bearer injection, a keyed read cache with a
// freshness window, and a write path that invalidates cache entries on
// success. These sentinel values and error types allow callers such as
// the order composer to distinguish failure scenarios without matching
// on message strings.
package api

import (
	"errors"
	"fmt"
)

// ErrAuthRequired is returned when a mutation that requires
// authentication is attempted without a token. No network call is made
// in that case.
var ErrAuthRequired = errors.New("authentication required but no token found, please log in again")

// ServerError is a non-success HTTP response. Message carries the
// server-provided error text when the body contained one, otherwise a
// generic fallback synthesized by the caller.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string { return e.Message }

// NetworkError wraps a transport failure: the request could not be
// sent or the response could not be received.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string { return fmt.Sprintf("network error: %v", e.Err) }
func (e *NetworkError) Unwrap() error { return e.Err }

// ValidationError reports a client-side check that failed before any
// network call was made.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// Message normalizes any error from this layer into the human-readable
// text shown to the guest.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var srv *ServerError
	if errors.As(err, &srv) {
		return srv.Message
	}
	var val *ValidationError
	if errors.As(err, &val) {
		return val.Reason
	}
	if errors.Is(err, ErrAuthRequired) {
		return ErrAuthRequired.Error()
	}
	var net *NetworkError
	if errors.As(err, &net) {
		return "could not reach the server, please try again"
	}
	return err.Error()
}
