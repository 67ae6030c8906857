package vimeo

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is checks at the client boundary.
var (
	ErrTransport   = errors.New("vimeo: connection failure or timeout")
	ErrDecode      = errors.New("vimeo: response body does not match schema")
	ErrUnauthorized = errors.New("vimeo: unauthorized, check the access token")
	ErrForbidden   = errors.New("vimeo: forbidden, token may lack permissions")
	ErrNotFound    = errors.New("vimeo: resource not found")
	ErrRateLimited = errors.New("vimeo: rate limited, too many requests")
	ErrUpstream    = errors.New("vimeo: upstream error")
)

// APIError wraps a sentinel with the operation and HTTP status that
// produced it.
type APIError struct {
	Sentinel error
	Op       string
	Status   int
	Err      error
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Op, e.Sentinel)
	if e.Status > 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, e.Status)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *APIError) Unwrap() error {
	return e.Sentinel
}

// apiErr builds an APIError for the given operation.
func apiErr(op string, sentinel error, status int, err error) *APIError {
	return &APIError{Sentinel: sentinel, Op: op, Status: status, Err: err}
}

// classifyStatus maps a non-2xx HTTP status to a sentinel.
func classifyStatus(status int) error {
	switch {
	case status == 401:
		return ErrUnauthorized
	case status == 403:
		return ErrForbidden
	case status == 404:
		return ErrNotFound
	case status == 429:
		return ErrRateLimited
	default:
		return ErrUpstream
	}
}
