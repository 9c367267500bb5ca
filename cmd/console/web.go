package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/josinaldojr/multiscrapper/internal/assistant"
	"github.com/josinaldojr/multiscrapper/internal/rag"
)

var (
	flagMode     string
	flagMarkdown bool
)

var webCmd = &cobra.Command{
	Use:   "web <url>",
	Short: "Scrape a page, then chat with it, extract a table or ask about the screenshot",
	Long: `Web renders the page in headless Chrome and then, depending on --mode:

  rag     answer questions about the page text
  table   extract a markdown table of products, prices and features
  vision  answer questions about the page screenshot (needs GOOGLE_API_KEY)`,
	Args: cobra.ExactArgs(1),
	RunE: runWeb,
}

func init() {
	rootCmd.AddCommand(webCmd)
	webCmd.Flags().StringVar(&flagMode, "mode", "rag", "rag, table or vision")
	webCmd.Flags().BoolVar(&flagMarkdown, "markdown", false, "Print the page as Markdown after scraping")
}

func runWeb(cmd *cobra.Command, args []string) error {
	switch flagMode {
	case "rag", "table", "vision":
	default:
		return fmt.Errorf("unknown mode %q (want rag, table or vision)", flagMode)
	}

	ctx := cmd.Context()
	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Scraping...")

	mode := flagMode
	if flagMarkdown {
		mode += "+markdown"
	}
	page, err := s.app.Tasks.ScrapePage(ctx, assistant.ScrapeRequest{URL: args[0], Mode: mode})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Scraped %d characters (language %s), screenshot at %s\n", len(page.Text), page.Language, page.Screenshot)
	if page.Markdown != "" {
		fmt.Fprintln(out, page.Markdown)
	}

	switch flagMode {
	case "table":
		resp, err := s.app.Tasks.ExtractTable(ctx, assistant.TableRequest{
			Text:        page.Text,
			Provider:    s.provider,
			Credentials: s.creds,
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(out, resp.Table)
		return nil

	case "vision":
		fmt.Fprintln(out, "Ask about the screenshot, \"exit\" to quit.")
		return questionLoop(cmd.InOrStdin(), out, func(q string) (string, error) {
			resp, err := s.app.Tasks.AnalyzeImage(ctx, assistant.VisionRequest{
				ImagePath: page.Screenshot,
				Prompt:    q,
				APIKey:    s.googleKey,
			})
			if err != nil {
				return "", err
			}
			return resp.Analysis, nil
		})
	}

	fmt.Fprintln(out, "Ask about the page, \"exit\" to quit.")
	return questionLoop(cmd.InOrStdin(), out, func(q string) (string, error) {
		resp, err := s.app.RAG.Answer(ctx, rag.AskRequest{
			Text:        page.Text,
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
