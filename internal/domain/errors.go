package domain

import "errors"

// Pipeline error taxonomy. Both fail fast and propagate to the caller;
// the core never retries and never synthesizes partial results.
var (
	// ErrInvalidInput covers empty identifier sets, malformed time
	// windows, unsupported bucket widths and malformed numeric fields.
	ErrInvalidInput = errors.New("invalid input")

	// ErrSourceUnavailable covers connectivity, timeout and auth failures
	// from either data source.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrNotFound is returned by stores when a requested record does not exist.
	ErrNotFound = errors.New("not found")
)
