// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - TemplateStore: Templates, requirement models and section categories
//   - Statistics: Word and character counting
//   - Markup: Text extraction from element HTML
//   - Collator: Case and punctuation insensitive ordering of keywords
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - BinaryStore: Figure payloads. Without it every figure has no image data.
//   - ImageInspector: Only needed when figure files are validated.
//   - IgnoredResultStore: Side table of ignored results. Without it only
//     ignored results embedded in the document suppress failures.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
