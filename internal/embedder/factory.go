package embedder

import (
	"fmt"
	"strings"
	"time"

	"github.com/srewoo/repospector/pkg/types"
)

// Config selects and configures a provider. The provider is chosen once at
// construction, never re-branched per call.
type Config struct {
	Provider     string // local | remote
	APIKey       string
	BaseURL      string
	Model        string
	CacheTTL     time.Duration
	CacheMaxSize int
}

// New builds a provider with its embedding cache attached. CacheMaxSize < 0
// disables caching entirely.
func New(cfg Config) (Provider, error) {
	var cache *Cache
	if cfg.CacheMaxSize >= 0 {
		cache = NewCache(cfg.CacheMaxSize, cfg.CacheTTL)
	}
	return NewWithCache(cfg, cache)
}

// NewWithCache builds a provider sharing an existing cache, so a process-wide
// cache can serve both providers across a provider switch.
func NewWithCache(cfg Config, cache *Cache) (Provider, error) {
	switch strings.ToLower(cfg.Provider) {
	case ProviderLocal, "":
		return NewLocalProvider(cache)
	case ProviderRemote:
		return NewRemoteProvider(RemoteConfig{
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
			APIKey:  cfg.APIKey,
		}, cache)
	default:
		return nil, fmt.Errorf("%w: %s", types.ErrUnknownProvider, cfg.Provider)
	}
}
