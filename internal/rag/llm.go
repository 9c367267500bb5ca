package rag

import (
	"context"

	"github.com/josinaldojr/multiscrapper/internal/llm"
)

// Embedder turns text into vectors. langchaingo's embeddings.EmbedderImpl satisfies it.
type Embedder interface {
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// ModelResolver picks the model for a request (llm.Selector).
type ModelResolver interface {
	Resolve(ctx context.Context, provider llm.Provider, creds llm.Credentials) (llm.Model, error)
}

// Invoker runs a prompt with the provider fallback policy (llm.Policy).
type Invoker interface {
	Invoke(ctx context.Context, model llm.Model, prompt string, creds llm.Credentials) (string, error)
}

var _ ModelResolver = (*llm.Selector)(nil)
var _ Invoker = (*llm.Policy)(nil)
