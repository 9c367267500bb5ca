package rag

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/ollama"

	"github.com/josinaldojr/multiscrapper/internal/llm"
)

// NewOllamaEmbedder embeds through a local Ollama server. The default model,
// all-minilm, is all-MiniLM-L6-v2.
func NewOllamaEmbedder(serverURL, model string) (*embeddings.EmbedderImpl, error) {
	log.Debug().Str("base_url", serverURL).Str("embedding_model", model).Msg("initializing ollama embedder")

	client, err := ollama.New(
		ollama.WithServerURL(serverURL),
		ollama.WithModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("init ollama: %w", err)
	}
	embedder, err := embeddings.NewEmbedder(client)
	if err != nil {
		return nil, fmt.Errorf("create embedder: %w", err)
	}
	return embedder, nil
}

// GeminiEmbedder embeds with Gemini text-embedding-004, one call per text.
type GeminiEmbedder struct {
	client *llm.GeminiClient
}

func NewGeminiEmbedder(client *llm.GeminiClient) *GeminiEmbedder {
	return &GeminiEmbedder{client: client}
}

func (e *GeminiEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for i, t := range texts {
		v, err := e.client.Embed(ctx, t)
		if err != nil {
			return nil, fmt.Errorf("embedding chunk %d: %w", i+1, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func (e *GeminiEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return e.client.Embed(ctx, text)
}

var _ Embedder = (*embeddings.EmbedderImpl)(nil)
var _ Embedder = (*GeminiEmbedder)(nil)
