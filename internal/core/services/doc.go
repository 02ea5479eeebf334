// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The validation pipeline is:
//
//	Template -> ExtractRequirements -> Requirements
//	Document + Requirements -> Validator -> raw results
//	raw results + ignored records -> ResultFilter -> results
//	results + Document -> Fixer -> fixed Document
//
// Services are pure Go with no CGO dependencies.
package services
