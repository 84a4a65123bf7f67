// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - KVStore: Key-value persistence for drawings, disciplines, favorites, preferences
//   - CaptureBus: Carries capture envelopes from the tap to the core
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
//   - Renderer: Presentation layer. A nil renderer discards render states.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
