// Package mcp provides an MCP (Model Context Protocol) server adapter for
// the manuscript validator. It lets AI assistants validate and fix
// manuscript projects and browse templates.
package mcp

import "errors"

// ErrMissingValidationService is returned when the validation service is not provided.
var ErrMissingValidationService = errors.New("mcp: validation service is required")
