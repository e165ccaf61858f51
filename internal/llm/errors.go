package llm

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnavailable indicates the model server could not be reached.
	ErrUnavailable = errors.New("llm server unavailable")

	// ErrTimeout indicates the LLM request exceeded the configured timeout.
	ErrTimeout = errors.New("llm request timed out")

	// ErrInvalidOutput indicates the LLM response could not be parsed
	// into the expected structured format.
	ErrInvalidOutput = errors.New("invalid llm output format")

	// ErrRetryExhausted indicates all retry attempts have been exhausted.
	ErrRetryExhausted = errors.New("llm retry attempts exhausted")

	// ErrMissingAPIKey indicates a hosted provider was selected without
	// credentials. It is never retried.
	ErrMissingAPIKey = errors.New("llm api key is not configured")
)

// statusError is a non-2xx answer from the model server.
type statusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Provider, e.StatusCode, e.Body)
}

// retryable reports whether another attempt could succeed. Client errors
// other than timeouts and rate limits will fail the same way again.
func (e *statusError) retryable() bool {
	if e.StatusCode == http.StatusTooManyRequests || e.StatusCode == http.StatusRequestTimeout {
		return true
	}
	return e.StatusCode >= 500
}
