// Package config holds the environment-driven configuration surface.
// Every field has a default; leaving an option unset never changes observed
// behavior from the documented defaults.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/srewoo/repospector/internal/embedder"
	"github.com/srewoo/repospector/internal/index"
	"github.com/srewoo/repospector/pkg/types"
)

// Environment variable names.
const (
	EnvProvider      = "REPOSPECTOR_PROVIDER"
	EnvAPIKey        = "REPOSPECTOR_API_KEY"
	EnvBaseURL       = "REPOSPECTOR_BASE_URL"
	EnvModel         = "REPOSPECTOR_MODEL"
	EnvBackend       = "REPOSPECTOR_BACKEND"
	EnvDataDir       = "REPOSPECTOR_DATA_DIR"
	EnvBatchSize     = "REPOSPECTOR_BATCH_SIZE"
	EnvMinScore      = "REPOSPECTOR_MIN_SCORE"
	EnvMaxPerFile    = "REPOSPECTOR_MAX_CHUNKS_PER_FILE"
	EnvCacheTTL      = "REPOSPECTOR_CACHE_TTL"
	EnvCacheMaxSize  = "REPOSPECTOR_CACHE_MAX_SIZE"
	EnvTokenBudget   = "REPOSPECTOR_TOKEN_BUDGET"
	EnvOverlapTokens = "REPOSPECTOR_OVERLAP_TOKENS"
)

// Defaults.
const (
	DefaultBatchSize        = 20
	DefaultMinScore         = 0.3
	DefaultMaxChunksPerFile = 2
	DefaultTokenBudget      = 2000
	DefaultOverlapTokens    = 200
)

// Config configures the whole pipeline.
type Config struct {
	// Embedding provider
	Provider string // local | remote
	APIKey   string
	BaseURL  string
	Model    string

	// Vector index
	Backend string // sqlite | chromem
	DataDir string

	// Orchestration
	BatchSize        int
	MinScore         float64
	MaxChunksPerFile int
	TokenBudget      int
	OverlapTokens    int

	// Embedding cache
	CacheTTL     time.Duration
	CacheMaxSize int
}

// Default returns a fully populated configuration.
func Default() Config {
	cfg := Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills unset fields with documented defaults.
func (c *Config) ApplyDefaults() {
	if c.Provider == "" {
		c.Provider = embedder.ProviderLocal
	}
	if c.Backend == "" {
		c.Backend = index.BackendSQLite
	}
	if c.BatchSize <= 0 {
		c.BatchSize = DefaultBatchSize
	}
	if c.MinScore == 0 {
		c.MinScore = DefaultMinScore
	}
	if c.MaxChunksPerFile <= 0 {
		c.MaxChunksPerFile = DefaultMaxChunksPerFile
	}
	if c.TokenBudget <= 0 {
		c.TokenBudget = DefaultTokenBudget
	}
	if c.OverlapTokens <= 0 {
		c.OverlapTokens = DefaultOverlapTokens
	}
	if c.CacheTTL <= 0 {
		c.CacheTTL = embedder.DefaultCacheTTL
	}
	if c.CacheMaxSize == 0 {
		c.CacheMaxSize = embedder.DefaultCacheMaxSize
	}
}

// Validate rejects configurations that would fail later in surprising ways.
func (c *Config) Validate() error {
	switch c.Provider {
	case embedder.ProviderLocal, embedder.ProviderRemote:
	default:
		return fmt.Errorf("%w: %s", types.ErrUnknownProvider, c.Provider)
	}
	if c.Provider == embedder.ProviderRemote && c.APIKey == "" {
		return types.ErrMissingAPIKey
	}
	switch c.Backend {
	case index.BackendSQLite, index.BackendChromem:
	default:
		return fmt.Errorf("%w: %s", types.ErrUnsupportedBackend, c.Backend)
	}
	if c.MinScore < 0 || c.MinScore > 1 {
		return fmt.Errorf("min score must be in [0, 1], got %g", c.MinScore)
	}
	return nil
}

// FromEnv reads configuration from the environment, applying defaults for
// anything unset. Call godotenv.Load first if a .env file should be honored.
func FromEnv() (Config, error) {
	cfg := Config{
		Provider:         os.Getenv(EnvProvider),
		APIKey:           os.Getenv(EnvAPIKey),
		BaseURL:          os.Getenv(EnvBaseURL),
		Model:            os.Getenv(EnvModel),
		Backend:          os.Getenv(EnvBackend),
		DataDir:          os.Getenv(EnvDataDir),
		BatchSize:        envInt(EnvBatchSize),
		MaxChunksPerFile: envInt(EnvMaxPerFile),
		TokenBudget:      envInt(EnvTokenBudget),
		OverlapTokens:    envInt(EnvOverlapTokens),
		CacheMaxSize:     envInt(EnvCacheMaxSize),
	}

	if v := os.Getenv(EnvMinScore); v != "" {
		score, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", EnvMinScore, err)
		}
		cfg.MinScore = score
	}
	if v := os.Getenv(EnvCacheTTL); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", EnvCacheTTL, err)
		}
		cfg.CacheTTL = ttl
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func envInt(name string) int {
	v := os.Getenv(name)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

// EmbedderConfig projects the provider-related fields.
func (c *Config) EmbedderConfig() embedder.Config {
	return embedder.Config{
		Provider:     c.Provider,
		APIKey:       c.APIKey,
		BaseURL:      c.BaseURL,
		Model:        c.Model,
		CacheTTL:     c.CacheTTL,
		CacheMaxSize: c.CacheMaxSize,
	}
}
