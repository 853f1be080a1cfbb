// Package domain defines the core business entities for gradewise.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Chunk: A bounded excerpt of the source document
//   - IndexedRecord / QueryHit: Vector collection contents and results
//   - ExamSession: Published questions handed to a student
//   - GradingReport: Per-question grading outcomes
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
