package ads

import (
	"errors"
	"fmt"
)

// Common errors returned by the ADS client.
var (
	// ErrNotFound indicates the identifier matched zero ADS records.
	ErrNotFound = errors.New("not found in ADS")

	// ErrAmbiguous indicates the identifier matched more than one ADS record.
	ErrAmbiguous = errors.New("ambiguous ADS identifier")

	// ErrAuthError indicates an authentication error (missing/invalid API token).
	ErrAuthError = errors.New("ADS authentication error")

	// ErrRateLimited indicates the rate limit has been exceeded.
	ErrRateLimited = errors.New("ADS rate limit exceeded")

	// ErrNetworkError indicates a network connectivity issue.
	ErrNetworkError = errors.New("network error communicating with ADS")

	// ErrInvalidResponse indicates an unexpected API response.
	ErrInvalidResponse = errors.New("invalid response from ADS")
)

// APIError represents an error from the ADS API.
type APIError struct {
	StatusCode int
	Message    string
	Identifier string // For context in lookup errors
}

func (e *APIError) Error() string {
	if e.Identifier != "" {
		return fmt.Sprintf("ADS API error (status %d): %s (identifier: %s)", e.StatusCode, e.Message, e.Identifier)
	}
	return fmt.Sprintf("ADS API error (status %d): %s", e.StatusCode, e.Message)
}

// IsNotFound returns true if the error indicates zero matching records.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 404
	}
	return false
}

// IsAmbiguous returns true if the error indicates multiple matching records.
func IsAmbiguous(err error) bool {
	return errors.Is(err, ErrAmbiguous)
}

// IsAuthError returns true if the error indicates an authentication problem.
func IsAuthError(err error) bool {
	if errors.Is(err, ErrAuthError) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 401 || apiErr.StatusCode == 403
	}
	return false
}
