package splitter

import "errors"

var (
	// ErrInvalidChunkSize is returned when the chunk size is not positive.
	ErrInvalidChunkSize = errors.New("chunk size must be greater than zero")

	// ErrInvalidChunkOverlap is returned when the overlap is negative or not smaller than the chunk size.
	ErrInvalidChunkOverlap = errors.New("chunk overlap must be non-negative and smaller than chunk size")

	// ErrUnknownLength is returned for an unrecognized length unit.
	ErrUnknownLength = errors.New("unknown length unit")
)
