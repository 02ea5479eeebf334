// Package domain defines the core business entities for the manuscript validator.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: The ordered, ID-keyed set of manuscript models
//   - Template: A named bundle of editorial requirements
//   - Requirements: The normalised requirement groups derived from a template
//   - ValidationResult: A typed pass/fail outcome of a single check
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
