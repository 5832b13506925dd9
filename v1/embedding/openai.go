package embedding

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIProvider calls the OpenAI embeddings API.
type OpenAIProvider struct {
	client openai.Client
}

func NewOpenAIProvider(cfg Config) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingCredentials
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		// retries are handled by Client
		option.WithMaxRetries(0),
	}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithBaseURL(cfg.Endpoint))
	}
	if cfg.HTTPTimeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.HTTPTimeout))
	}

	return &OpenAIProvider{client: openai.NewClient(opts...)}, nil
}

func (p *OpenAIProvider) Create(ctx context.Context, model string, texts ...string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("openai: no texts provided")
	}

	resp, err := p.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
		Model: openai.EmbeddingModel(model),
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return nil, &StatusError{StatusCode: apiErr.StatusCode, Body: apiErr.Message}
		}
		return nil, fmt.Errorf("openai API error: %w", err)
	}

	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("openai: expected %d embeddings, got %d", len(texts), len(resp.Data))
	}

	out := make([][]float64, len(texts))
	for i, d := range resp.Data {
		idx := int(d.Index)
		if idx < 0 || idx >= len(out) || out[idx] != nil {
			idx = i
		}
		out[idx] = d.Embedding
	}
	return out, nil
}
