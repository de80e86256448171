package embedder

import (
	"context"
	"fmt"

	"github.com/srewoo/repospector/pkg/types"
)

// Provider names selectable at construction.
const (
	ProviderLocal  = "local"
	ProviderRemote = "remote"
)

// Provider converts batches of texts into vectors. Implementations are
// order- and length-preserving: the i-th vector embeds the i-th text.
// Exactly two implementations exist (local, remote), selected when the
// provider is constructed.
type Provider interface {
	// Embed returns one vector per input text, in input order.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Dimension returns the vector dimensionality this provider produces.
	// Vectors from different providers must never share one repository index.
	Dimension() int

	// Name returns the provider name (local, remote).
	Name() string

	// Close releases any resources held by the provider.
	Close() error
}

// ValidateTexts rejects empty batches and empty elements before any provider
// work happens.
func ValidateTexts(texts []string) error {
	if len(texts) == 0 {
		return fmt.Errorf("%w: no texts provided", types.ErrEmptyContent)
	}
	for i, t := range texts {
		if t == "" {
			return fmt.Errorf("%w: text at index %d", types.ErrEmptyContent, i)
		}
	}
	return nil
}
