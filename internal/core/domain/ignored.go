package domain

import "time"

// IgnoredResult is a failure the user has chosen to suppress for a manuscript.
// It is kept in a side table so ignore bookkeeping never touches the
// document's section structure.
type IgnoredResult struct {
	// ID is the unique identifier of the record.
	ID string

	// ManuscriptID scopes the record to one manuscript.
	ManuscriptID string

	// Result is the suppressed result; matching uses its type-specific
	// equality rule, not its ID.
	Result *ValidationResult

	// Reason is an optional explanation.
	Reason string

	// IgnoredAt is when the result was ignored.
	IgnoredAt time.Time
}
