// Package services implements the driving port interfaces.
// Services contain the grading pipeline logic and orchestrate
// calls to driven ports (adapters).
//
//   - PreprocessService: PDF to normalised chunk store
//   - IndexService: chunk store to vector collection, nearest-neighbour queries
//   - QueryEngine: retrieval plus templated generation for one submission
//   - GradingService: concurrent, failure-isolated batch grading
//   - SessionService: exam publication and submission
//   - SettingsService: configuration access and validation
//
// Services never import adapters; everything external is reached
// through ports.
package services
