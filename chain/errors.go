package chain

import "errors"

var (
	// ErrNoRoles is returned when a sequence is built without roles.
	ErrNoRoles = errors.New("sequence requires at least one role")

	// ErrInvalidRole is returned when a role fails validation.
	ErrInvalidRole = errors.New("invalid role")

	// ErrModelRequired is returned when a role has no model to run on.
	ErrModelRequired = errors.New("language model required")

	// ErrMissingVariable is returned when a role's input variable has no value.
	ErrMissingVariable = errors.New("missing input variable")

	// ErrDuplicateOutputKey is returned when two roles write the same output key.
	ErrDuplicateOutputKey = errors.New("duplicate output key")
)
