// Package embed generates and stores embedding vectors for page content.
package embed

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// ErrNoEmbeddings is returned when the provider answers with no vectors.
var ErrNoEmbeddings = errors.New("no embeddings in response")

// Embedder computes embedding vectors for texts.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Ensure OpenAIEmbedder implements Embedder.
var _ Embedder = (*OpenAIEmbedder)(nil)

// OpenAIEmbedder calls the OpenAI embeddings API.
type OpenAIEmbedder struct {
	api   *openai.Client
	model openai.EmbeddingModel
}

// NewOpenAIEmbedder creates an embedder for the given model. An empty
// baseURL uses the default OpenAI endpoint.
func NewOpenAIEmbedder(apiKey, baseURL, model string) *OpenAIEmbedder {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	return &OpenAIEmbedder{
		api:   openai.NewClientWithConfig(cfg),
		model: openai.EmbeddingModel(model),
	}
}

// EmbedTexts returns one vector per input text, in input order.
func (e *OpenAIEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	resp, err := e.api.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
		Input: texts,
		Model: e.model,
	})
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}

	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("%w: got %d vectors for %d texts", ErrNoEmbeddings, len(resp.Data), len(texts))
	}

	vectors := make([][]float32, len(resp.Data))
	for i, d := range resp.Data {
		vectors[i] = d.Embedding
	}

	return vectors, nil
}
