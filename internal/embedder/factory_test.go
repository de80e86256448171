package embedder

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srewoo/repospector/pkg/types"
)

func TestNew_DefaultsToLocal(t *testing.T) {
	p, err := New(Config{})
	require.NoError(t, err)
	assert.Equal(t, ProviderLocal, p.Name())
	assert.Equal(t, LocalDimension, p.Dimension())
}

func TestNew_Remote(t *testing.T) {
	p, err := New(Config{Provider: ProviderRemote, APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, ProviderRemote, p.Name())
}

func TestNew_RemoteWithoutKey(t *testing.T) {
	_, err := New(Config{Provider: ProviderRemote})
	assert.ErrorIs(t, err, types.ErrMissingAPIKey)
}

func TestNew_UnknownProvider(t *testing.T) {
	_, err := New(Config{Provider: "quantum"})
	assert.ErrorIs(t, err, types.ErrUnknownProvider)
}

func TestNew_ProviderNameCaseInsensitive(t *testing.T) {
	p, err := New(Config{Provider: "LOCAL"})
	require.NoError(t, err)
	assert.Equal(t, ProviderLocal, p.Name())
}

func TestNewWithCache_SharedCacheAcrossProviders(t *testing.T) {
	cache := NewCache(10, 0)

	local, err := NewWithCache(Config{Provider: ProviderLocal}, cache)
	require.NoError(t, err)

	_, err = local.Embed(context.Background(), []string{"shared"})
	require.NoError(t, err)
	assert.Equal(t, 1, cache.Len())
}
