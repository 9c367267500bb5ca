package rag

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"

	"github.com/philippgille/chromem-go"
)

// Index answers nearest-neighbour queries over one document's chunks.
type Index interface {
	Search(ctx context.Context, query []float32, k int) ([]Chunk, error)
	Len() int
}

// IndexBuilder creates an Index from chunks and their embeddings. hash identifies
// the document the chunks came from.
type IndexBuilder interface {
	Build(ctx context.Context, hash string, chunks []string, vectors [][]float32) (Index, error)
}

var errNoEmbeddingFunc = errors.New("documents must be embedded before indexing")

// MemoryIndexBuilder keeps each index in its own in-memory chromem database.
type MemoryIndexBuilder struct{}

func NewMemoryIndexBuilder() *MemoryIndexBuilder {
	return &MemoryIndexBuilder{}
}

func (b *MemoryIndexBuilder) Build(ctx context.Context, hash string, chunks []string, vectors [][]float32) (Index, error) {
	if len(chunks) != len(vectors) {
		return nil, fmt.Errorf("got %d chunks but %d embeddings", len(chunks), len(vectors))
	}

	db := chromem.NewDB()
	collection, err := db.CreateCollection("doc-"+hash, nil, func(context.Context, string) ([]float32, error) {
		return nil, errNoEmbeddingFunc
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create collection: %w", err)
	}

	docs := make([]chromem.Document, len(chunks))
	for i, c := range chunks {
		docs[i] = chromem.Document{
			ID:        strconv.Itoa(i),
			Content:   c,
			Embedding: vectors[i],
		}
	}
	if len(docs) > 0 {
		if err := collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
			return nil, fmt.Errorf("failed to add documents: %w", err)
		}
	}

	return &MemoryIndex{collection: collection}, nil
}

// MemoryIndex is a chromem collection; similarity is cosine.
type MemoryIndex struct {
	collection *chromem.Collection
}

func (i *MemoryIndex) Len() int {
	return i.collection.Count()
}

func (i *MemoryIndex) Search(ctx context.Context, query []float32, k int) ([]Chunk, error) {
	n := min(k, i.collection.Count())
	if n <= 0 {
		return nil, nil
	}

	results, err := i.collection.QueryEmbedding(ctx, query, n, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to query by similarity: %w", err)
	}

	out := make([]Chunk, 0, len(results))
	for _, r := range results {
		ord, _ := strconv.Atoi(r.ID)
		out = append(out, Chunk{Ordinal: ord, Content: r.Content, Score: r.Similarity})
	}
	return out, nil
}

var _ IndexBuilder = (*MemoryIndexBuilder)(nil)
var _ Index = (*MemoryIndex)(nil)
