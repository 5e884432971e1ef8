package mapwize

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrPollExhausted is returned when a job did not reach a terminal state within the
// allowed number of polls.
var ErrPollExhausted = errors.New("job did not reach a terminal state")

// APIError is a non-2xx answer from the API.
type APIError struct {
	StatusCode int
	Method     string
	Path       string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s: HTTP %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// IsNotFound returns true for 404 answers.
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsRateLimited returns true for 429 answers.
func (e *APIError) IsRateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

// IsServerError returns true for 5xx answers.
func (e *APIError) IsServerError() bool {
	return e.StatusCode >= 500
}

// IsNotFound reports whether err is an *APIError with status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.IsNotFound()
}

// isRetryable reports whether a failed call may be sent again. A POST that got a
// 5xx may already have been stored, so only 429 answers are retried for it.
func isRetryable(method string, err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	if apiErr.IsRateLimited() {
		return true
	}
	return apiErr.IsServerError() && method != http.MethodPost
}
