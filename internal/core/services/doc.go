// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The capture pipeline lives here: the entity extractor, the per-project
// reconciliation buffer, the discipline registry and the capture service
// that owns one session per project.
//
// Services are pure Go with no external dependencies beyond the logger.
package services
