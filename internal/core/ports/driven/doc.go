// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Interfaces
//
//   - DocumentLoader: Finds the source PDF and extracts page text
//   - ChunkStore: Chunk persistence between build and index runs
//   - VectorStore / Collection: Durable vector collections
//   - EmbeddingService: Generates vector embeddings
//   - LLMService: Produces grading feedback
//   - SessionStore: Exam session persistence
//   - ConfigStore: Application configuration
//   - AIConfigValidator: Connectivity checks for AI providers
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven
