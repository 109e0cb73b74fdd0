// Package cli implements the kbsearch command line interface.
package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/lessonworks/kbsearch/internal/adapters/driven/config/file"
	"github.com/lessonworks/kbsearch/internal/adapters/driven/embedding/ollama"
	"github.com/lessonworks/kbsearch/internal/adapters/driven/embedding/openai"
	"github.com/lessonworks/kbsearch/internal/adapters/driven/storage/memory"
	"github.com/lessonworks/kbsearch/internal/adapters/driven/storage/sqlite"
	"github.com/lessonworks/kbsearch/internal/cache"
	"github.com/lessonworks/kbsearch/internal/chunker"
	"github.com/lessonworks/kbsearch/internal/core/ports/driven"
	"github.com/lessonworks/kbsearch/internal/core/ports/driving"
	"github.com/lessonworks/kbsearch/internal/core/services"
	"github.com/lessonworks/kbsearch/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	flagVerbose   bool
	flagDataDir   string
	flagConfigDir string
	flagEphemeral bool
)

// Services used by the commands. Wired by initServices on first run;
// tests swap these for mocks.
var (
	indexService  driving.Indexer
	searchService driving.Searcher
	embedService  *services.Embedder
	vectorStore   driven.VectorStore
)

var rootCmd = &cobra.Command{
	Use:   "kbsearch",
	Short: "Semantic search over a local knowledge base",
	Long: `kbsearch indexes lesson documents into a local vector store and
answers natural-language queries with the most relevant passages,
ranked by cosine similarity of their embeddings.`,
	SilenceUsage: true,
	// Errors are printed once, by main.
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(flagVerbose)
		return initServices()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default ~/.kbsearch)")
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config", "", "config directory (default ~/.kbsearch)")
	rootCmd.PersistentFlags().BoolVar(&flagEphemeral, "ephemeral", false, "keep embeddings in memory only")
}

// Execute runs the root command.
func Execute() error {
	defer func() {
		if vectorStore != nil {
			_ = vectorStore.Close()
		}
	}()
	return rootCmd.Execute()
}

// initServices wires adapters and services from configuration. A no-op
// when services are already in place.
func initServices() error {
	if indexService != nil && searchService != nil {
		return nil
	}

	cfg, err := file.Load(flagConfigDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	provider, err := buildProvider(cfg)
	if err != nil {
		return err
	}

	if flagEphemeral {
		vectorStore = memory.NewVectorStore(provider.Dimensions())
	} else {
		store, err := sqlite.NewStore(flagDataDir, provider.Dimensions())
		if err != nil {
			return fmt.Errorf("opening vector store: %w", err)
		}
		vectorStore = store
	}

	c := cache.New(cfg.Cache.Capacity, time.Duration(cfg.Cache.TTLMinutes)*time.Minute)

	embedService = services.NewEmbedder(provider, c,
		services.WithRetry(cfg.Embed.RetryAttempts, time.Duration(cfg.Embed.RetryDelaySeconds)*time.Second),
		services.WithConcurrency(cfg.Embed.Concurrency),
		services.WithRateLimit(cfg.Embed.RequestsPerSecond, cfg.Embed.Burst),
	)

	splitter := chunker.New(
		chunker.WithChunkSize(cfg.Chunking.ChunkSize),
		chunker.WithOverlap(cfg.Chunking.Overlap),
		chunker.WithMinChunkLength(cfg.Chunking.MinChunkLength),
	)

	indexService = services.NewIndexService(splitter, embedService, vectorStore, c)
	searchService = services.NewSearchService(embedService, vectorStore, c)

	logger.Debug("Services initialised (provider=%s, model=%s, dims=%d)",
		cfg.Provider.Type, provider.ModelName(), provider.Dimensions())
	return nil
}

func buildProvider(cfg *file.Config) (driven.EmbeddingProvider, error) {
	switch cfg.Provider.Type {
	case "", "ollama":
		return ollama.New(ollama.Config{
			BaseURL:    cfg.Provider.BaseURL,
			Model:      cfg.Provider.Model,
			Timeout:    time.Duration(cfg.Provider.TimeoutSeconds) * time.Second,
			Dimensions: cfg.Provider.Dimensions,
		}), nil
	case "openai":
		return openai.New(openai.Config{
			APIKey:     cfg.Provider.APIKey,
			BaseURL:    cfg.Provider.BaseURL,
			Model:      cfg.Provider.Model,
			Timeout:    time.Duration(cfg.Provider.TimeoutSeconds) * time.Second,
			Dimensions: cfg.Provider.Dimensions,
		})
	default:
		return nil, fmt.Errorf("unknown provider type %q (expected ollama or openai)", cfg.Provider.Type)
	}
}
