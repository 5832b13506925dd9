package embedding

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// InferenceProvider talks to any OpenAI-compatible /embeddings endpoint.
type InferenceProvider struct {
	baseURL      string
	serviceToken string
	httpClient   *http.Client
}

func NewInferenceProvider(cfg Config) (*InferenceProvider, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("inference: missing EMBEDDING_ENDPOINT")
	}
	cfg = cfg.withDefaults()

	return &InferenceProvider{
		baseURL:      strings.TrimRight(cfg.Endpoint, "/"),
		serviceToken: cfg.APIKey,
		httpClient:   &http.Client{Timeout: cfg.HTTPTimeout},
	}, nil
}

// Create posts {model, input} and reorders the answer by its index field.
func (p *InferenceProvider) Create(ctx context.Context, model string, texts ...string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("inference: no texts provided")
	}
	if model == "" {
		return nil, fmt.Errorf("inference: model is required")
	}

	reqBody := map[string]any{
		"model": model,
		"input": texts,
	}

	var parsed struct {
		Data []struct {
			Index     int       `json:"index"`
			Embedding []float64 `json:"embedding"`
		} `json:"data"`
	}
	if err := p.postJSON(ctx, p.baseURL+"/embeddings", reqBody, &parsed); err != nil {
		return nil, err
	}

	if len(parsed.Data) != len(texts) {
		return nil, fmt.Errorf("inference: expected %d embeddings, got %d", len(texts), len(parsed.Data))
	}

	out := make([][]float64, len(texts))
	for i, d := range parsed.Data {
		idx := d.Index
		if idx < 0 || idx >= len(out) || out[idx] != nil {
			idx = i
		}
		out[idx] = d.Embedding
	}
	return out, nil
}
