package resolver

import "errors"

var (
	// ErrNetwork is returned when a request cannot be completed: DNS,
	// connection or timeout failures, and any non-2xx status.
	ErrNetwork = errors.New("network error")

	// ErrParse is returned when a search response is not the expected
	// JSON shape.
	ErrParse = errors.New("unexpected response")

	// ErrEmptyCountry is returned when Search is called with an empty code.
	ErrEmptyCountry = errors.New("country code must not be empty")

	// ErrInvalidProxyAddress is returned when the proxy address format is invalid.
	ErrInvalidProxyAddress = errors.New("invalid proxy address format: expected host:port")
)

// StatusError describes a non-2xx response. It unwraps to ErrNetwork.
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
}

// Error implements error.
func (e *StatusError) Error() string {
	return "GET " + e.URL + ": " + e.Status
}

// Unwrap lets errors.Is(err, ErrNetwork) match.
func (e *StatusError) Unwrap() error {
	return ErrNetwork
}
