package loader

import "errors"

var (
	// ErrUnsupportedExtension indicates no loader is registered for a file extension.
	ErrUnsupportedExtension = errors.New("unsupported file extension")

	// ErrMalformedDocument indicates a file could not be parsed in its declared format.
	ErrMalformedDocument = errors.New("malformed document")
)
