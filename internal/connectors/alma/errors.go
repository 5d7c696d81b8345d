package alma

import (
	"errors"
	"fmt"
)

// Alma-specific errors.
var (
	// ErrNoAPIKey indicates the client was created without an API key.
	ErrNoAPIKey = errors.New("alma: api key is required")

	// ErrNoEndpoint indicates the client was created without an endpoint.
	ErrNoEndpoint = errors.New("alma: endpoint is required")

	// ErrEmptyVariable indicates a filter was requested without a variable name.
	ErrEmptyVariable = errors.New("alma: filter variable is empty")
)

// TransportError represents a request that could not be completed,
// either because the connection failed or because the service kept
// answering with a retryable status until retries ran out.
type TransportError struct {
	// StatusCode is the last HTTP status received, 0 if none.
	StatusCode int

	// Message is the service error message from the last response, if any.
	Message string

	// URL is the endpoint without query parameters.
	URL string

	// Attempts is the number of requests made.
	Attempts int

	// Err is the last connection error, nil when a status was received.
	Err error
}

func (e *TransportError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("alma: request to %s failed after %d attempts: %v", e.URL, e.Attempts, e.Err)
	case e.Message != "":
		return fmt.Sprintf("alma: HTTP %d after %d attempts: %s (URL: %s)", e.StatusCode, e.Attempts, e.Message, e.URL)
	default:
		return fmt.Sprintf("alma: HTTP %d after %d attempts (URL: %s)", e.StatusCode, e.Attempts, e.URL)
	}
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsTransportError checks if the error is a transport failure.
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsUnauthorized checks if the error indicates the API key was rejected.
func IsUnauthorized(err error) bool {
	var te *TransportError
	if errors.As(err, &te) {
		return te.StatusCode == 401 || te.StatusCode == 403
	}
	return false
}
