package extract

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/kkdai/youtube/v2"
	"github.com/rs/zerolog/log"
)

var videoIDPattern = regexp.MustCompile(`(?:v=|/)([0-9A-Za-z_-]{11})`)

// ErrNoCaptions is returned when a video has no caption track at all.
var ErrNoCaptions = errors.New("no transcript available for this video")

// VideoID pulls the 11 character video id out of a watch, share or embed URL.
func VideoID(rawURL string) (string, bool) {
	m := videoIDPattern.FindStringSubmatch(rawURL)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// TranscriptFetcher returns the transcript of a video as one line of text.
type TranscriptFetcher interface {
	Transcript(ctx context.Context, videoID string) (string, error)
}

// YouTubeTranscripts reads caption tracks through the innertube API.
type YouTubeTranscripts struct {
	client *youtube.Client
}

func NewYouTubeTranscripts() *YouTubeTranscripts {
	return &YouTubeTranscripts{client: &youtube.Client{}}
}

// Transcript prefers an English track (manual or generated) and otherwise takes the
// first track the video offers.
func (y *YouTubeTranscripts) Transcript(ctx context.Context, videoID string) (string, error) {
	video, err := y.client.GetVideoContext(ctx, videoID)
	if err != nil {
		return "", fmt.Errorf("fetch video %s: %w", videoID, err)
	}

	lang, ok := pickTrack(video.CaptionTracks)
	if !ok {
		return "", ErrNoCaptions
	}
	log.Debug().Str("video_id", videoID).Str("lang", lang).Msg("fetching transcript")

	segments, err := y.client.GetTranscriptCtx(ctx, video, lang)
	if err != nil {
		return "", fmt.Errorf("fetch transcript: %w", err)
	}

	text := joinSegments(segments)
	log.Info().Str("video_id", videoID).Int("chars", len(text)).Msg("transcript fetched")
	return text, nil
}

func pickTrack(tracks []youtube.CaptionTrack) (string, bool) {
	if len(tracks) == 0 {
		return "", false
	}
	for _, t := range tracks {
		if t.LanguageCode == "en" || strings.HasPrefix(t.LanguageCode, "en-") {
			return t.LanguageCode, true
		}
	}
	return tracks[0].LanguageCode, true
}

func joinSegments(segments youtube.VideoTranscript) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		parts = append(parts, s.Text)
	}
	return strings.Join(parts, " ")
}

var _ TranscriptFetcher = (*YouTubeTranscripts)(nil)
