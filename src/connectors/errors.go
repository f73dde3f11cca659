package connectors

import "errors"

var (
	// ErrNetwork marks unreachable providers, timeouts and non-2xx statuses.
	ErrNetwork = errors.New("provider unreachable")
	// ErrDecode marks malformed or schema-mismatched provider payloads.
	ErrDecode = errors.New("malformed provider response")
)
