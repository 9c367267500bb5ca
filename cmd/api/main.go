package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/josinaldojr/multiscrapper/internal/app"
	"github.com/josinaldojr/multiscrapper/internal/config"
	apphttp "github.com/josinaldojr/multiscrapper/internal/http"
	"github.com/josinaldojr/multiscrapper/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	services, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init services")
	}
	defer services.Close()

	h := apphttp.NewHandler(services.RAG, services.Tasks, cfg.ScreenshotPath)
	router := apphttp.NewRouter(h, log.Logger, cfg.AllowedOrigins)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", srv.Addr).Str("embedding", cfg.Embedding.Backend).Str("vector", cfg.Vector.Backend).Msg("API listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
