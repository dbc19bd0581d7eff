package qrgen

import "errors"

// Sentinel errors returned by Generate. Callers distinguish them with
// errors.Is to decide whether the input was bad or the symbol could not
// be produced.
var (
	// ErrInvalidArgument means the request violates a precondition:
	// empty content, a non-positive or oversized pixel size, content
	// exceeding the configured byte cap, or an unknown error-correction
	// level. The input must change; retrying is pointless.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrEncodingFailure means the underlying encoder could not represent
	// the content as a QR symbol, typically because it exceeds the maximum
	// symbol capacity at the chosen error-correction level.
	ErrEncodingFailure = errors.New("encoding failure")
)
