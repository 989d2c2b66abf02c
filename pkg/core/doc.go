// Package core defines the shared language of the SQLTrail system.
//
// This package contains:
//   - Domain entities (Entity, Analysis, Run)
//   - Service interfaces (Store)
//
// The Golden Rule: pkg/core imports ONLY the stdlib.
// All other packages depend on core, not the reverse.
package core
