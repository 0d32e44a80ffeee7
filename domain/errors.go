package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrUnauthorized marks any request the server rejected for a missing or
// invalid credential. The gateway recovers centrally (session cleared,
// navigation to login) and still propagates the failure to the caller.
var ErrUnauthorized = errors.New("authorization rejected")

// APIError is a request the server understood and refused: insufficient
// balance, unknown recipient, duplicate email. Message is the server's own
// wording and is shown to the user verbatim.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("api error: status %d", e.Status)
}

// Is lets errors.Is(err, ErrUnauthorized) match a 401-class APIError.
func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}

// TransportError is a network failure or a 5xx: the request may or may not
// have reached the server, and there is no message worth showing verbatim.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ErrorMessage extracts the user-facing message for err: a domain error's
// server message verbatim when present, the fallback for everything else
// (transport failures, empty messages).
func ErrorMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
