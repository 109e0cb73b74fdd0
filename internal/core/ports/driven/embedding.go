package driven

import "context"

// EmbeddingProvider converts text into fixed-length vectors by calling
// an external feature-extraction model.
//
// Implementations are plain transport adapters: retry, caching, rate
// limiting and batching policy live in the core's embedding service,
// not here. Adapters should return errors for non-2xx responses so the
// service layer can decide whether to retry.
//
// Implementations may include:
//   - Ollama (nomic-embed-text, all-minilm)
//   - OpenAI (text-embedding-3-small, text-embedding-3-large)
type EmbeddingProvider interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the embedding vector size (e.g. 384, 768, 1536).
	// Every vector the provider returns must have this length.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the provider is reachable with a lightweight
	// request that does not run inference.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
