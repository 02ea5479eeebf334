// Package file provides the TOML configuration store.
//
// Settings live in ~/.manuscript-validator/config.toml by default. Nested
// tables are exposed as dot-notation keys, so
//
//	[validation]
//	template = "MPManuscriptTemplate:letter"
//
// is read with the key "validation.template".
package file
