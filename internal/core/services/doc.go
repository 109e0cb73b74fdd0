// Package services implements the driving port interfaces.
// Services contain the core retrieval logic - chunking, embedding
// policy, ingestion, and similarity search - and orchestrate calls to
// driven ports (adapters).
package services
