package types

import "errors"

// Error taxonomy shared across the pipeline. The split between configuration,
// authentication and transient provider failures matters: only transient
// failures consume retry budget.
var (
	// Configuration errors: fail fast, never retried.
	ErrMissingAPIKey      = errors.New("remote embedding provider requires an API key")
	ErrUnsupportedBackend = errors.New("unsupported vector index backend")
	ErrUnknownProvider    = errors.New("unknown embedding provider")

	// ErrAuthFailed marks a 401/403 from the embedding provider. Non-retryable
	// and surfaced immediately so retry budget is not wasted.
	ErrAuthFailed = errors.New("embedding provider rejected credentials")

	// ErrProviderFailed marks a transient provider failure surfaced after the
	// retry ceiling is exhausted.
	ErrProviderFailed = errors.New("embedding provider failed")

	// ErrLocalInit is recoverable: the caller should switch to the remote
	// provider and may continue operating.
	ErrLocalInit = errors.New("local embedding provider failed to initialize (switch to the remote provider)")

	// ErrNotInitialized is returned when the index is used before Init.
	ErrNotInitialized = errors.New("vector index not initialized")

	ErrEmptyContent = errors.New("content cannot be empty")
	ErrEmptyQuery   = errors.New("query cannot be empty")
)
