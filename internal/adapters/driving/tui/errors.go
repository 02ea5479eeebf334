package tui

import "errors"

// ErrMissingValidationService is returned when the validation service is not provided.
var ErrMissingValidationService = errors.New("tui: validation service is required")

// ErrMissingDocument is returned when there is no document to review.
var ErrMissingDocument = errors.New("tui: document is required")

// ErrSaveUnavailable is returned when saving is requested without a save port.
var ErrSaveUnavailable = errors.New("tui: saving is not available")
