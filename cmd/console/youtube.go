package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/josinaldojr/multiscrapper/internal/assistant"
)

var youtubeCmd = &cobra.Command{
	Use:   "youtube <url>",
	Short: "Summarize a YouTube video from its transcript",
	Args:  cobra.ExactArgs(1),
	RunE:  runYouTube,
}

func init() {
	rootCmd.AddCommand(youtubeCmd)
}

func runYouTube(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	fmt.Fprintln(cmd.OutOrStdout(), "Fetching transcript and generating summary...")
	resp, err := s.app.Tasks.SummarizeVideo(ctx, assistant.VideoRequest{
		URL:         args[0],
		Provider:    s.provider,
		Credentials: s.creds,
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), resp.Summary)
	return nil
}
