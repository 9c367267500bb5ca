package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/josinaldojr/multiscrapper/internal/apperr"
)

const (
	topK           = 3
	promptTemplate = "Use the context to answer. Context: %s Question: %s"
)

type Service struct {
	embedder Embedder
	builder  IndexBuilder
	cache    VectorStoreCache
	models   ModelResolver
	invoker  Invoker
	chunker  *Chunker
}

func NewService(embedder Embedder, builder IndexBuilder, cache VectorStoreCache, models ModelResolver, invoker Invoker) *Service {
	return &Service{
		embedder: embedder,
		builder:  builder,
		cache:    cache,
		models:   models,
		invoker:  invoker,
		chunker:  NewChunker(DefaultChunkSize, DefaultChunkOverlap),
	}
}

// Answer retrieves the top chunks of req.Text for the question and asks the
// resolved model, with provider fallback. The index for a document is built once
// and reused while it stays in the cache.
func (s *Service) Answer(ctx context.Context, req AskRequest) (*AskResponse, error) {
	if strings.TrimSpace(req.Question) == "" {
		return nil, apperr.New(apperr.ErrInvalidInput, "question is required")
	}
	if strings.TrimSpace(req.Text) == "" {
		return nil, apperr.New(apperr.ErrInvalidInput, "text is required")
	}

	log.Info().Str("question", preview(req.Question, 50)).Msg("starting Q&A")

	index, err := s.Index(ctx, req.Text)
	if err != nil {
		return nil, err
	}

	model, err := s.models.Resolve(ctx, req.Provider, req.Credentials)
	if err != nil {
		return nil, err
	}

	qvec, err := s.embedder.EmbedQuery(ctx, req.Question)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}

	chunks, err := index.Search(ctx, qvec, topK)
	if err != nil {
		return nil, err
	}

	prompt := BuildPrompt(chunks, req.Question)
	answer, err := s.invoker.Invoke(ctx, model, prompt, req.Credentials)
	if err != nil {
		return nil, err
	}

	log.Info().Str("model", model.Name()).Int("chunks", len(chunks)).Msg("AI response generated")
	return &AskResponse{Answer: StripEmphasis(answer)}, nil
}

// Index returns the cached index for text, building and caching a new one when the
// slot holds another document.
func (s *Service) Index(ctx context.Context, text string) (Index, error) {
	hash := ContentHash(text)

	if idx, ok := s.cache.Load(hash); ok {
		log.Debug().Str("hash", hash).Msg("reusing cached vector store")
		return idx, nil
	}

	chunks, err := s.chunker.Split(text)
	if err != nil {
		return nil, err
	}
	log.Info().Str("hash", hash).Int("chunks", len(chunks)).Msg("building new vector store")

	vectors, err := s.embedder.EmbedDocuments(ctx, chunks)
	if err != nil {
		return nil, fmt.Errorf("embed chunks: %w", err)
	}

	idx, err := s.builder.Build(ctx, hash, chunks, vectors)
	if err != nil {
		return nil, fmt.Errorf("build index: %w", err)
	}

	s.cache.Store(hash, idx)
	return idx, nil
}

// BuildPrompt fills the QA template with the retrieved chunks.
func BuildPrompt(chunks []Chunk, question string) string {
	parts := make([]string, 0, len(chunks))
	for _, c := range chunks {
		parts = append(parts, c.Content)
	}
	return fmt.Sprintf(promptTemplate, strings.Join(parts, "\n\n"), question)
}

// StripEmphasis removes markdown asterisks from model output.
func StripEmphasis(s string) string {
	return strings.ReplaceAll(s, "*", "")
}

func preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
