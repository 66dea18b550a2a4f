package news

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownCategory is returned for category listings outside the catalog.
	ErrUnknownCategory = errors.New("unrecognized category")

	// ErrUpstreamAuth is returned when the upstream API rejects the credential (HTTP 401).
	ErrUpstreamAuth = errors.New("upstream rejected credentials")

	// ErrUpstreamUnavailable covers every other upstream failure: transport
	// errors, unexpected status codes, malformed bodies and non-ok statuses.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrTimestamp is matched by TimestampError via errors.Is.
	ErrTimestamp = errors.New("invalid article timestamp")
)

// TimestampError reports an article whose publishedAt is not ISO-8601.
type TimestampError struct {
	Value string
	Err   error
}

func (e *TimestampError) Error() string {
	return fmt.Sprintf("parse publishedAt %q: %v", e.Value, e.Err)
}

func (e *TimestampError) Unwrap() []error { return []error{ErrTimestamp, e.Err} }
