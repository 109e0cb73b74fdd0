package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/lessonworks/kbsearch/internal/cache"
	"github.com/lessonworks/kbsearch/internal/core/domain"
	"github.com/lessonworks/kbsearch/internal/core/ports/driven"
	"github.com/lessonworks/kbsearch/internal/logger"
)

// Default embedding policy values.
const (
	// DefaultEmbedAttempts is the total number of provider attempts
	// per text before giving up.
	DefaultEmbedAttempts = 3

	// DefaultEmbedRetryDelay is the fixed pause between attempts.
	DefaultEmbedRetryDelay = time.Second

	// DefaultEmbedConcurrency caps in-flight provider calls during
	// batch embedding.
	DefaultEmbedConcurrency = 10

	// DefaultEmbedRateLimit is the sustained provider request rate.
	DefaultEmbedRateLimit = 10.0

	// DefaultEmbedBurst is the provider request burst size.
	DefaultEmbedBurst = 10
)

// Embedder wraps an EmbeddingProvider with the policy the provider
// itself does not carry: cache lookups keyed by normalised text, a
// token-bucket rate limit, bounded retries with a fixed delay, and
// bounded concurrency for batches.
type Embedder struct {
	provider    driven.EmbeddingProvider
	cache       *cache.Cache
	limiter     *rate.Limiter
	attempts    uint64
	delay       time.Duration
	concurrency int
}

// EmbedderOption configures the embedder.
type EmbedderOption func(*Embedder)

// WithRetry sets the total attempt count and the fixed delay between
// attempts.
func WithRetry(attempts int, delay time.Duration) EmbedderOption {
	return func(e *Embedder) {
		if attempts > 0 {
			e.attempts = uint64(attempts)
		}
		if delay > 0 {
			e.delay = delay
		}
	}
}

// WithConcurrency bounds in-flight provider calls during EmbedBatch.
func WithConcurrency(n int) EmbedderOption {
	return func(e *Embedder) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

// WithRateLimit sets the provider request rate and burst.
func WithRateLimit(perSecond float64, burst int) EmbedderOption {
	return func(e *Embedder) {
		if perSecond > 0 && burst > 0 {
			e.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
		}
	}
}

// NewEmbedder creates an embedder around the given provider.
// The cache is optional; when nil every call reaches the provider.
func NewEmbedder(provider driven.EmbeddingProvider, c *cache.Cache, opts ...EmbedderOption) *Embedder {
	e := &Embedder{
		provider:    provider,
		cache:       c,
		limiter:     rate.NewLimiter(rate.Limit(DefaultEmbedRateLimit), DefaultEmbedBurst),
		attempts:    DefaultEmbedAttempts,
		delay:       DefaultEmbedRetryDelay,
		concurrency: DefaultEmbedConcurrency,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Embed returns the embedding for text, consulting the cache before
// the provider. Empty text is rejected with domain.ErrInvalidInput;
// exhausted retries surface as domain.ErrProviderUnavailable, never as
// a silent zero vector.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: empty text", domain.ErrInvalidInput)
	}

	if e.cache != nil {
		if vector, ok := e.cache.Vector(text); ok {
			logger.Debug("Embedding cache hit (%d dims)", len(vector))
			return vector, nil
		}
	}

	if err := e.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	vector, err := e.callProvider(ctx, text)
	if err != nil {
		return nil, err
	}

	if want := e.provider.Dimensions(); want > 0 && len(vector) != want {
		logger.Error("Provider returned %d dims, expected %d", len(vector), want)
		return nil, fmt.Errorf("%w: provider returned %d dims, expected %d",
			domain.ErrDimensionMismatch, len(vector), want)
	}

	if e.cache != nil {
		e.cache.SetVector(text, vector)
	}

	return vector, nil
}

// callProvider invokes the provider with the configured retry policy.
func (e *Embedder) callProvider(ctx context.Context, text string) ([]float32, error) {
	var vector []float32
	attempt := 0

	backoff := retry.WithMaxRetries(e.attempts-1, retry.NewConstant(e.delay))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		v, err := e.provider.Embed(ctx, text)
		if err != nil {
			logger.Warn("Embed attempt %d/%d failed: %v", attempt, e.attempts, err)
			return retry.RetryableError(err)
		}
		vector = v
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("embed: %w", ctx.Err())
		}
		return nil, fmt.Errorf("%w: %d attempts failed, last error: %v",
			domain.ErrProviderUnavailable, e.attempts, err)
	}

	return vector, nil
}

// EmbedBatch embeds every text, preserving input order in the output
// regardless of the completion order of the underlying calls. At most
// the configured concurrency of provider calls are in flight at once;
// cancellation stops issuing new calls but lets in-flight ones finish.
func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	for i, text := range texts {
		if strings.TrimSpace(text) == "" {
			return nil, fmt.Errorf("%w: empty text at index %d", domain.ErrInvalidInput, i)
		}
	}

	logger.Debug("Embedding batch of %d texts (concurrency %d)", len(texts), e.concurrency)

	vectors := make([][]float32, len(texts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	for i := range texts {
		i := i
		g.Go(func() error {
			// A failed or cancelled batch stops issuing new calls.
			if err := gctx.Err(); err != nil {
				return err
			}
			vector, err := e.Embed(gctx, texts[i])
			if err != nil {
				return fmt.Errorf("embed text %d: %w", i, err)
			}
			vectors[i] = vector
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return vectors, nil
}

// Dimensions returns the provider's embedding vector size.
func (e *Embedder) Dimensions() int {
	return e.provider.Dimensions()
}

// ModelName returns the provider's model name.
func (e *Embedder) ModelName() string {
	return e.provider.ModelName()
}

// Ping checks that the provider is reachable.
func (e *Embedder) Ping(ctx context.Context) error {
	return e.provider.Ping(ctx)
}
