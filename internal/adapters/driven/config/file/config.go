// Package file loads kbsearch configuration from a TOML file.
// Missing files and missing keys fall back to defaults, so a fresh
// install works with no configuration at all (local Ollama).
package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// DefaultFileName is the config file name inside the config directory.
const DefaultFileName = "config.toml"

// Config is the full application configuration.
type Config struct {
	Provider ProviderConfig `toml:"provider"`
	Chunking ChunkingConfig `toml:"chunking"`
	Search   SearchConfig   `toml:"search"`
	Cache    CacheConfig    `toml:"cache"`
	Embed    EmbedConfig    `toml:"embedding"`
}

// ProviderConfig selects and configures the embedding provider.
type ProviderConfig struct {
	// Type is "ollama" or "openai".
	Type string `toml:"type"`

	// BaseURL overrides the provider's default endpoint.
	BaseURL string `toml:"base_url"`

	// Model is the embedding model name.
	Model string `toml:"model"`

	// APIKey authenticates against hosted providers. The
	// KBSEARCH_API_KEY environment variable takes precedence so keys
	// can stay out of the file.
	APIKey string `toml:"api_key"`

	// Dimensions is the embedding vector size. Zero uses the
	// provider's default for the model.
	Dimensions int `toml:"dimensions"`

	// TimeoutSeconds is the per-request timeout.
	TimeoutSeconds int `toml:"timeout_seconds"`
}

// ChunkingConfig controls the text splitter.
type ChunkingConfig struct {
	ChunkSize      int `toml:"chunk_size"`
	Overlap        int `toml:"overlap"`
	MinChunkLength int `toml:"min_chunk_length"`
}

// SearchConfig controls result ranking.
type SearchConfig struct {
	TopK          int     `toml:"top_k"`
	MinSimilarity float64 `toml:"min_similarity"`
}

// CacheConfig controls the in-process caches.
type CacheConfig struct {
	Capacity   int `toml:"capacity"`
	TTLMinutes int `toml:"ttl_minutes"`
}

// EmbedConfig controls the embedding call policy.
type EmbedConfig struct {
	RetryAttempts     int     `toml:"retry_attempts"`
	RetryDelaySeconds int     `toml:"retry_delay_seconds"`
	Concurrency       int     `toml:"concurrency"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Burst             int     `toml:"burst"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Provider: ProviderConfig{
			Type: "ollama",
		},
		Chunking: ChunkingConfig{
			ChunkSize:      500,
			Overlap:        100,
			MinChunkLength: 100,
		},
		Search: SearchConfig{
			TopK:          5,
			MinSimilarity: 0.7,
		},
		Cache: CacheConfig{
			Capacity:   256,
			TTLMinutes: 15,
		},
		Embed: EmbedConfig{
			RetryAttempts:     3,
			RetryDelaySeconds: 1,
			Concurrency:       10,
			RequestsPerSecond: 10,
			Burst:             10,
		},
	}
}

// Load reads the config file from configDir, overlaying defaults.
// If configDir is empty, defaults to ~/.kbsearch. A missing file is
// not an error; a malformed one is.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		configDir = filepath.Join(home, ".kbsearch")
	}

	cfg := Default()

	path := filepath.Join(configDir, DefaultFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			applyEnv(cfg)
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	applyEnv(cfg)
	return cfg, nil
}

// applyEnv overlays environment variables that outrank the file.
func applyEnv(cfg *Config) {
	if key := os.Getenv("KBSEARCH_API_KEY"); key != "" {
		cfg.Provider.APIKey = key
	}
}
