package embedder

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/srewoo/repospector/pkg/types"
)

const (
	// LocalDimension is the vector size of the local provider.
	LocalDimension = 384

	// RemoteDimension is the default vector size of the remote provider.
	RemoteDimension = 1536

	// DefaultRemoteBaseURL and DefaultRemoteModel configure the remote
	// endpoint when the caller does not.
	DefaultRemoteBaseURL = "https://api.openai.com/v1"
	DefaultRemoteModel   = "text-embedding-3-small"

	httpTimeout = 30 * time.Second
)

// apiError carries the HTTP status of a failed provider call so the retry
// layer can distinguish authentication failures from transient ones.
type apiError struct {
	status  int
	message string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.status, e.message)
}

// Unwrap maps 401/403 onto ErrAuthFailed so errors.Is short-circuits retry.
func (e *apiError) Unwrap() error {
	if e.status == http.StatusUnauthorized || e.status == http.StatusForbidden {
		return types.ErrAuthFailed
	}
	return nil
}

// LocalProvider produces deterministic hash-derived unit vectors without any
// network dependency. Useful offline and as the default when no API key is
// configured.
type LocalProvider struct {
	cache *Cache
}

// localInitCheck verifies the provider can produce a sane vector. Package
// variable so tests can force an initialization failure.
var localInitCheck = func() error {
	v := hashVector("init probe", LocalDimension)
	if len(v) != LocalDimension {
		return fmt.Errorf("probe produced %d dimensions, want %d", len(v), LocalDimension)
	}
	return nil
}

// NewLocalProvider creates the local provider. An initialization failure is
// recoverable: the error tells the caller to switch to the remote provider,
// and the process keeps working in remote mode thereafter.
func NewLocalProvider(cache *Cache) (*LocalProvider, error) {
	if err := localInitCheck(); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrLocalInit, err)
	}
	return &LocalProvider{cache: cache}, nil
}

// Embed returns one vector per text. Single-text requests consult the cache
// first; batch requests never do.
func (l *LocalProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if err := ValidateTexts(texts); err != nil {
		return nil, err
	}

	if len(texts) == 1 {
		if v, ok := l.cache.Get(texts[0]); ok {
			return [][]float32{v}, nil
		}
	}

	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		vectors[i] = hashVector(text, LocalDimension)
	}

	if len(texts) == 1 {
		l.cache.Set(texts[0], vectors[0])
	}
	return vectors, nil
}

func (l *LocalProvider) Dimension() int { return LocalDimension }
func (l *LocalProvider) Name() string   { return ProviderLocal }
func (l *LocalProvider) Close() error   { return nil }

// hashVector derives a deterministic unit vector from text by chaining
// SHA-256 blocks. Identical texts always embed identically.
func hashVector(text string, dim int) []float32 {
	vector := make([]float32, dim)
	block := sha256.Sum256([]byte(text))
	j := 0
	for i := 0; i < dim; i++ {
		if j+4 > len(block) {
			block = sha256.Sum256(block[:])
			j = 0
		}
		bits := binary.LittleEndian.Uint32(block[j : j+4])
		vector[i] = float32(bits)/float32(math.MaxUint32)*2 - 1
		j += 4
	}
	return NormalizeVector(vector)
}

// RemoteConfig configures the remote embedding endpoint.
type RemoteConfig struct {
	BaseURL   string
	Model     string
	APIKey    string
	Dimension int
}

// RemoteProvider calls an embeddings HTTP API: POST <baseURL>/embeddings with
// {model, input: [...]}, bearer auth, response data in request order.
type RemoteProvider struct {
	cfg        RemoteConfig
	httpClient *http.Client
	cache      *Cache
	retry      RetryConfig
}

// NewRemoteProvider creates the remote provider. A missing API key is a
// configuration error and fails fast.
func NewRemoteProvider(cfg RemoteConfig, cache *Cache) (*RemoteProvider, error) {
	if cfg.APIKey == "" {
		return nil, types.ErrMissingAPIKey
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultRemoteBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultRemoteModel
	}
	if cfg.Dimension <= 0 {
		cfg.Dimension = RemoteDimension
	}
	return &RemoteProvider{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: httpTimeout},
		cache:      cache,
		retry:      DefaultRetryConfig(),
	}, nil
}

// Embed returns one vector per text, retrying transient failures with
// exponential backoff. Authentication failures propagate immediately.
// Single-text requests consult the cache first.
func (r *RemoteProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if err := ValidateTexts(texts); err != nil {
		return nil, err
	}

	if len(texts) == 1 {
		if v, ok := r.cache.Get(texts[0]); ok {
			return [][]float32{v}, nil
		}
	}

	vectors, err := retryWithBackoff(ctx, r.retry, func() ([][]float32, error) {
		return r.callAPI(ctx, texts)
	})
	if err != nil {
		if errors.Is(err, types.ErrAuthFailed) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", types.ErrProviderFailed, err)
	}

	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("%w: got %d embeddings for %d texts",
			types.ErrProviderFailed, len(vectors), len(texts))
	}

	if len(texts) == 1 {
		r.cache.Set(texts[0], vectors[0])
	}
	return vectors, nil
}

func (r *RemoteProvider) callAPI(ctx context.Context, texts []string) ([][]float32, error) {
	body, err := json.Marshal(map[string]interface{}{
		"model": r.cfg.Model,
		"input": texts,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		r.cfg.BaseURL+"/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+r.cfg.APIKey)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("api call: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeAPIError(resp)
	}

	var apiResp struct {
		Data []struct {
			Embedding []float32 `json:"embedding"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	vectors := make([][]float32, len(apiResp.Data))
	for i, d := range apiResp.Data {
		vectors[i] = d.Embedding
	}
	return vectors, nil
}

// decodeAPIError surfaces the provider's error.message when present, else the
// HTTP status text.
func decodeAPIError(resp *http.Response) error {
	message := http.StatusText(resp.StatusCode)
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var payload struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error.Message != "" {
		message = payload.Error.Message
	}
	return &apiError{status: resp.StatusCode, message: message}
}

func (r *RemoteProvider) Dimension() int { return r.cfg.Dimension }
func (r *RemoteProvider) Name() string   { return ProviderRemote }

func (r *RemoteProvider) Close() error {
	r.httpClient.CloseIdleConnections()
	return nil
}

// NormalizeVector scales v to unit length for cosine similarity.
func NormalizeVector(v []float32) []float32 {
	var sum float64
	for _, val := range v {
		sum += float64(val) * float64(val)
	}
	if sum == 0 {
		return v
	}
	norm := float32(math.Sqrt(sum))
	out := make([]float32, len(v))
	for i, val := range v {
		out[i] = val / norm
	}
	return out
}
