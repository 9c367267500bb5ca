// Package app builds the long-lived services shared by the API server and the
// console from one Config.
package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/josinaldojr/multiscrapper/internal/assistant"
	"github.com/josinaldojr/multiscrapper/internal/config"
	"github.com/josinaldojr/multiscrapper/internal/db"
	"github.com/josinaldojr/multiscrapper/internal/extract"
	"github.com/josinaldojr/multiscrapper/internal/llm"
	"github.com/josinaldojr/multiscrapper/internal/rag"
	"github.com/josinaldojr/multiscrapper/internal/scrape"
)

// App holds the wired services. Close releases the database pool and the Redis
// connection, if any.
type App struct {
	RAG      *rag.Service
	Tasks    *assistant.Service
	Selector *llm.Selector
	Policy   *llm.Policy

	closers []func()
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{}

	modelCache, err := a.modelCache(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	embedder, err := newEmbedder(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	builder, err := a.indexBuilder(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	vendors := llm.NewVendors()
	a.Selector = llm.NewSelector(vendors, modelCache)
	a.Policy = llm.NewPolicy(vendors, cfg.GroqAPIKey)

	a.RAG = rag.NewService(embedder, builder, rag.NewSingleSlotCache(), a.Selector, a.Policy)
	a.Tasks = assistant.NewService(
		scrape.NewBrowser(cfg.ScreenshotPath, cfg.BrowserWait),
		extract.NewYouTubeTranscripts(),
		vendors,
		a.Selector,
		a.Policy,
		cfg.ScreenshotPath,
	)
	return a, nil
}

func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func (a *App) modelCache(ctx context.Context, cfg *config.Config) (llm.ModelNameCache, error) {
	if cfg.ModelCacheRedisURL == "" {
		return llm.NewMemoryModelCache(), nil
	}
	c, err := llm.NewRedisModelCacheFromURL(ctx, cfg.ModelCacheRedisURL)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, func() { _ = c.Close() })
	log.Info().Msg("model cache: redis")
	return c, nil
}

func (a *App) indexBuilder(ctx context.Context, cfg *config.Config) (rag.IndexBuilder, error) {
	if cfg.Vector.Backend != "postgres" {
		return rag.NewMemoryIndexBuilder(), nil
	}
	pool, err := db.NewPool(ctx, cfg.Vector.DatabaseURL)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, pool.Close)
	if err := db.Migrate(ctx, pool); err != nil {
		return nil, err
	}
	log.Info().Msg("vector index: postgres")
	return rag.NewPgIndexBuilder(pool), nil
}

func newEmbedder(ctx context.Context, cfg *config.Config) (rag.Embedder, error) {
	switch cfg.Embedding.Backend {
	case "gemini":
		client, err := llm.NewGeminiClient(ctx, cfg.GoogleAPIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to init Gemini embedder: %w", err)
		}
		return rag.NewGeminiEmbedder(client), nil
	default:
		return rag.NewOllamaEmbedder(cfg.Embedding.OllamaURL, cfg.Embedding.Model)
	}
}
