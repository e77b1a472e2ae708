package api

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized means the server rejected the bearer token. No
	// refresh exchange is attempted; the user must sign in again.
	ErrUnauthorized = errors.New("authenticated request rejected")

	// ErrInsufficientPoints is returned by the client-side redemption
	// guard before any network call is made.
	ErrInsufficientPoints = errors.New("insufficient points")
)

// APIError is a domain failure reported inside the server's JSON envelope,
// or a non-2xx response without a decodable envelope.
type APIError struct {
	Status  int    // HTTP status, 0 when the envelope itself reported failure
	Message string
	Code    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api error %s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("api error: %s", e.Message)
}

// Unwrap lets callers match rejected credentials with errors.Is.
func (e *APIError) Unwrap() error {
	if e.Status == 401 || e.Status == 403 {
		return ErrUnauthorized
	}
	return nil
}
