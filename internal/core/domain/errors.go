package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or inconsistent project data:
	// a missing manuscript, a dangling reference, more than one keywords
	// section, or keyword IDs that do not resolve. Callers should present
	// these as "bad project data" rather than as a bug.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvariant indicates a precondition was violated while evaluating
	// or fixing a requirement, e.g. a dimension bound exists but the image
	// dimension cannot be determined, or a fix targets a model of the wrong type.
	ErrInvariant = errors.New("invariant violated")

	// ErrUnsupportedType indicates an unknown image or object type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrNotImplemented indicates a required collaborator was not configured.
	ErrNotImplemented = errors.New("not implemented")
)
