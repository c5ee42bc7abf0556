package remote

import (
	"errors"
	"fmt"
	"net/http"
)

// StatusError reports a non-2xx HTTP response. It carries the status code so
// callers can distinguish client errors (fail fast) from server errors
// (retry).
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d for %s", e.Code, e.URL)
}

// NotFound reports whether err is a 404 response.
func NotFound(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.Code == http.StatusNotFound
}

// Retryable classifies an error for the retry policy: transport-level
// failures and 5xx responses are transient, 4xx responses are not.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code >= http.StatusInternalServerError
	}
	return true
}
