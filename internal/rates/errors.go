package rates

import "github.com/pkg/errors"

var (
	// ErrNotFound is returned when a marker or data file is missing or unreadable.
	ErrNotFound = errors.New("rates: file not found")
	// ErrMalformedMarker is returned when the build marker is not well-formed JSON.
	ErrMalformedMarker = errors.New("rates: malformed build marker")
	// ErrMalformedData is returned when a data file is not a flat object of numbers.
	ErrMalformedData = errors.New("rates: malformed rate data")
	// ErrInvalidCommit is returned when a cache replace is attempted with an
	// empty build ID or an unparseable rate payload.
	ErrInvalidCommit = errors.New("rates: invalid commit")
)
