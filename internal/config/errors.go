package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() so that callers can use
// errors.Is() while the user still gets a readable message.
var (
	// ErrInvalidBaseURL is returned when the resolver base URL is empty or
	// not an absolute URL.
	ErrInvalidBaseURL = errors.New("invalid base URL: must be an absolute URL")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidUserAgent is returned when the User-Agent is empty.
	ErrInvalidUserAgent = errors.New("invalid user agent: must not be empty")

	// ErrInvalidProxy is returned when the proxy is not in host:port form.
	ErrInvalidProxy = errors.New("invalid proxy address format: expected host:port")

	// ErrInvalidOutputDir is returned when the output directory is empty.
	ErrInvalidOutputDir = errors.New("invalid output directory: must not be empty")

	// ErrInvalidImageDir is returned when the image directory is empty,
	// absolute, or points outside the output directory.
	ErrInvalidImageDir = errors.New("invalid image directory: must be a relative path inside the output directory")

	// ErrInvalidMaxBodySize is returned when the body size limit is not positive.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be positive")

	// ErrInvalidSpinnerInterval is returned when the spinner interval is not positive.
	ErrInvalidSpinnerInterval = errors.New("invalid spinner interval: must be positive")
)
