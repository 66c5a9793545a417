package openmeteo

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrInvalidPayload is returned when a response cannot be decoded or
	// fails schema validation.
	ErrInvalidPayload = errors.New("invalid provider payload")

	// ErrRateLimited matches a StatusError for HTTP 429.
	ErrRateLimited = errors.New("provider rate limit exceeded")
)

// StatusError is a non-200 response from an Open-Meteo API.
type StatusError struct {
	API        string
	StatusCode int
	Reason     string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s API error: %d %s", e.API, e.StatusCode, http.StatusText(e.StatusCode))
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

// Is reports whether target is ErrRateLimited and the status was 429.
func (e *StatusError) Is(target error) bool {
	return target == ErrRateLimited && e.StatusCode == http.StatusTooManyRequests
}
