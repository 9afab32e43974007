package datasource

import "errors"

// Fetch failures are classified as one of these; provider errors wrap them so
// callers can use errors.Is.
var (
	// ErrTransport covers network, DNS, timeout and non-2xx failures
	ErrTransport = errors.New("transport failure")
	// ErrDecode covers malformed or incomplete payloads
	ErrDecode = errors.New("decode failure")
)
