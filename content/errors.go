package content

import "errors"

var (
	// ErrMultipleNotes is returned when the content folder holds more than one markdown file.
	ErrMultipleNotes = errors.New("there is more than one markdown file in the directory")

	// ErrNoNotes is returned when the content folder holds no markdown file.
	ErrNoNotes = errors.New("the directory does not contain any markdown files")

	// ErrSequenceRequired is returned when no chain sequence is provided.
	ErrSequenceRequired = errors.New("chain sequence required")

	// ErrNotAnImage is returned when a downloaded file is not an image.
	ErrNotAnImage = errors.New("downloaded file is not an image")

	// ErrEmptyInput is returned when a starter subject or persona is blank.
	ErrEmptyInput = errors.New("subject and customer are required")
)
