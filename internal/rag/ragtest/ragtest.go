// Package ragtest holds deterministic stand-ins for the embedding model and a
// builder wrapper that counts rebuilds.
package ragtest

import (
	"context"
	"strings"
	"sync"

	"github.com/josinaldojr/multiscrapper/internal/rag"
)

// Embedder maps text to letter frequencies plus a constant component, so similar
// words land close together and no vector is zero.
type Embedder struct {
	mu      sync.Mutex
	Queries int
	Docs    int
}

func (e *Embedder) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	e.mu.Lock()
	e.Docs += len(texts)
	e.mu.Unlock()

	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = Vector(t)
	}
	return out, nil
}

func (e *Embedder) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	e.mu.Lock()
	e.Queries++
	e.mu.Unlock()
	return Vector(text), nil
}

// Vector is the embedding Embedder produces for text.
func Vector(text string) []float32 {
	v := make([]float32, 27)
	for _, r := range strings.ToLower(text) {
		if r >= 'a' && r <= 'z' {
			v[r-'a']++
		}
	}
	v[26] = 1
	return v
}

// CountingBuilder wraps another builder and records each build.
type CountingBuilder struct {
	mu     sync.Mutex
	Inner  rag.IndexBuilder
	Hashes []string
}

func NewCountingBuilder(inner rag.IndexBuilder) *CountingBuilder {
	return &CountingBuilder{Inner: inner}
}

func (b *CountingBuilder) Build(ctx context.Context, hash string, chunks []string, vectors [][]float32) (rag.Index, error) {
	b.mu.Lock()
	b.Hashes = append(b.Hashes, hash)
	b.mu.Unlock()
	return b.Inner.Build(ctx, hash, chunks, vectors)
}

// Builds returns how many indexes were built.
func (b *CountingBuilder) Builds() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.Hashes)
}

var _ rag.Embedder = (*Embedder)(nil)
var _ rag.IndexBuilder = (*CountingBuilder)(nil)
