package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/josinaldojr/multiscrapper/internal/assistant"
	"github.com/josinaldojr/multiscrapper/internal/rag"
	"github.com/josinaldojr/multiscrapper/internal/scrape"
)

var pdfCmd = &cobra.Command{
	Use:     "pdf <file>",
	Aliases: []string{"doc"},
	Short:   "Chat with a PDF (or a .txt, .md or .html file)",
	Args:    cobra.ExactArgs(1),
	RunE:    runPDF,
}

func init() {
	rootCmd.AddCommand(pdfCmd)
}

func runPDF(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	text, err := loadDocument(ctx, s.app.Tasks, args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Loaded %s (%d characters). Ask away, \"exit\" to quit.\n", filepath.Base(args[0]), len(text))

	return questionLoop(cmd.InOrStdin(), out, func(q string) (string, error) {
		resp, err := s.app.RAG.Answer(ctx, rag.AskRequest{
			Text:        text,
			Question:    q,
			Provider:    s.provider,
			Credentials: s.creds,
		})
		if err != nil {
			return "", err
		}
		return resp.Answer, nil
	})
}

// loadDocument returns the plain text of a local file. PDFs go through the PDF
// extractor, HTML through the page cleaner, anything else with a text extension is
// read as is.
func loadDocument(ctx context.Context, tasks *assistant.Service, path string) (string, error) {
	var text string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", path, err)
		}
		resp, err := tasks.VectorizePDF(ctx, data)
		if err != nil {
			return "", err
		}
		text = resp.Text

	case ".html", ".htm":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", path, err)
		}
		if text, err = scrape.Clean(string(data)); err != nil {
			return "", err
		}

	case ".md", ".txt":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", path, err)
		}
		text = string(data)

	default:
		return "", fmt.Errorf("unsupported file type: %s", path)
	}

	text = strings.TrimSpace(strings.ToValidUTF8(text, ""))
	if text == "" {
		return "", fmt.Errorf("no text found in %s", path)
	}
	return text, nil
}
