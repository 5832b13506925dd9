package embedding

import (
	"context"
	"errors"
	"fmt"
)

// ErrMissingCredentials is returned when no API key or service token is configured.
var ErrMissingCredentials = errors.New("embedding: missing credentials (OPENAI_API_KEY or EMBEDDING_SERVICE_TOKEN)")

// Provider contract
type Provider interface {
	// Create generates one embedding per text, in input order.
	Create(ctx context.Context, model string, texts ...string) ([][]float64, error)
}

// StatusError is a non-2xx answer from a provider.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("http %d", e.StatusCode)
	}
	return fmt.Sprintf("http %d: %s", e.StatusCode, e.Body)
}

// Retryable reports whether the status is worth another attempt.
func (e *StatusError) Retryable() bool {
	return e.StatusCode == 429 || e.StatusCode >= 500
}
