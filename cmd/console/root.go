package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/josinaldojr/multiscrapper/internal/app"
	"github.com/josinaldojr/multiscrapper/internal/config"
	"github.com/josinaldojr/multiscrapper/internal/llm"
	"github.com/josinaldojr/multiscrapper/internal/logging"
)

var flagProvider string

var rootCmd = &cobra.Command{
	Use:   "multiscrapper",
	Short: "MultiScrapper: chat with videos, documents and web pages",
	Long: `MultiScrapper scrapes web pages, reads PDFs and YouTube transcripts, and
answers questions about them with Gemini or Groq.

Keys are read from GOOGLE_API_KEY and GROQ_API_KEY.

Usage:
  multiscrapper youtube <url>
  multiscrapper pdf <file>
  multiscrapper web <url> --mode rag|table|vision`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagProvider, "provider", string(llm.DefaultProvider),
		fmt.Sprintf("AI engine: %q, %q or %q", llm.Providers[0], llm.Providers[1], llm.Providers[2]))
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// session is what every command needs: the services, the keys and the provider.
type session struct {
	app       *app.App
	provider  llm.Provider
	creds     llm.Credentials
	googleKey string
}

func openSession(ctx context.Context) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	a, err := app.New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &session{
		app:       a,
		provider:  llm.ParseProvider(flagProvider),
		creds:     llm.Credentials{Primary: cfg.GoogleAPIKey, Secondary: cfg.GroqAPIKey},
		googleKey: cfg.GoogleAPIKey,
	}, nil
}

func (s *session) Close() {
	s.app.Close()
}
