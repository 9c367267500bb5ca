package rag

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

// PgIndexBuilder stores chunks in the document_chunk table, scoped by content hash.
// Rebuilding a hash replaces its rows.
type PgIndexBuilder struct {
	db *pgxpool.Pool
}

func NewPgIndexBuilder(db *pgxpool.Pool) *PgIndexBuilder {
	return &PgIndexBuilder{db: db}
}

func (b *PgIndexBuilder) Build(ctx context.Context, hash string, chunks []string, vectors [][]float32) (Index, error) {
	if len(chunks) != len(vectors) {
		return nil, fmt.Errorf("got %d chunks but %d embeddings", len(chunks), len(vectors))
	}

	tx, err := b.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM document_chunk WHERE content_hash = $1`, hash); err != nil {
		return nil, fmt.Errorf("clear chunks: %w", err)
	}

	batch := &pgx.Batch{}
	for i, c := range chunks {
		batch.Queue(`
			INSERT INTO document_chunk (content_hash, ordinal, content, embedding)
			VALUES ($1, $2, $3, $4)
		`, hash, i, c, pgvector.NewVector(vectors[i]))
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return nil, fmt.Errorf("insert chunks: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit chunks: %w", err)
	}

	return &PgIndex{db: b.db, hash: hash, count: len(chunks)}, nil
}

// PgIndex searches one document's rows with pgvector cosine distance.
type PgIndex struct {
	db    *pgxpool.Pool
	hash  string
	count int
}

func (i *PgIndex) Len() int { return i.count }

func (i *PgIndex) Search(ctx context.Context, query []float32, k int) ([]Chunk, error) {
	if k <= 0 {
		k = 3
	}

	vec := pgvector.NewVector(query)

	rows, err := i.db.Query(ctx, `
		SELECT ordinal, content, 1 - (embedding <=> $2) AS similarity
		FROM document_chunk
		WHERE content_hash = $1
		ORDER BY embedding <=> $2
		LIMIT $3
	`, i.hash, vec, k)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chunks []Chunk
	for rows.Next() {
		var c Chunk
		var sim float64
		if err := rows.Scan(&c.Ordinal, &c.Content, &sim); err != nil {
			return nil, err
		}
		c.Score = float32(sim)
		chunks = append(chunks, c)
	}

	return chunks, rows.Err()
}

var _ IndexBuilder = (*PgIndexBuilder)(nil)
var _ Index = (*PgIndex)(nil)
