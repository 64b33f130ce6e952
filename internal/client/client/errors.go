package client

import (
	"errors"
	"fmt"
)

var (
	ErrUnavailable = errors.New("server unavailable")
	ErrDecode      = errors.New("malformed response")
)

// APIError is a non-2xx response. Detail is the server's "detail" field and
// may be empty.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("api error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("api error: status %d: %s", e.StatusCode, e.Detail)
}

// DetailOr returns the server detail of err when err is an *APIError with a
// non-empty detail, and fallback otherwise.
func DetailOr(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return fallback
}
