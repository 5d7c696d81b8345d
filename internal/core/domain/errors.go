package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidConfig indicates the run configuration is unusable.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrHistoryUnavailable indicates no run history store is configured.
	ErrHistoryUnavailable = errors.New("run history unavailable")

	// ErrNoVariantsSelected indicates run filters matched no file variant.
	ErrNoVariantsSelected = errors.New("no file variants selected")

	// Fetch Errors.

	// ErrMalformedResponse indicates the service returned a body that could not be parsed.
	// The whole report fetch is restarted when this is seen.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrUnexpectedResponse indicates a well-formed body that is neither a result nor an error envelope.
	ErrUnexpectedResponse = errors.New("unexpected response")

	// ErrMissingResumptionToken indicates the service asked for more pages without handing out a token.
	ErrMissingResumptionToken = errors.New("report not finished but no resumption token received")

	// ErrRetryCeiling indicates a report fetch kept failing with malformed responses.
	ErrRetryCeiling = errors.New("retry ceiling reached")
)

// ServiceError is an error reported by the analytics service inside a well-formed envelope.
// It is fatal for the file variant being fetched.
type ServiceError struct {
	Code    string
	Message string
}

func (e *ServiceError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("service error: %s", e.Message)
	}
	return fmt.Sprintf("service error %s: %s", e.Code, e.Message)
}

// IsRetryable reports whether err should restart the report fetch from scratch.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrMalformedResponse)
}

// IsServiceError reports whether err carries a service-reported error envelope.
func IsServiceError(err error) bool {
	var se *ServiceError
	return errors.As(err, &se)
}
