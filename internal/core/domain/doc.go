// Package domain defines the core business entities for plantap.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Drawing: A blueprint record observed in captured traffic
//   - DisciplineEntry / DisciplineMap: Discipline id to display name and order
//   - ProjectContext: The (company, project, drawing area) scope of all state
//   - Value: An order-preserving JSON value taken from a captured response
//   - CaptureEnvelope: One captured response travelling to the core
//   - RenderState / Tree: What the presentation layer is given
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
