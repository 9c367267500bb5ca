// Package assistant implements the content tasks on top of the scraper, the
// extractors and the model selection layer.
package assistant

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/josinaldojr/multiscrapper/internal/apperr"
	"github.com/josinaldojr/multiscrapper/internal/extract"
	"github.com/josinaldojr/multiscrapper/internal/llm"
	"github.com/josinaldojr/multiscrapper/internal/rag"
	"github.com/josinaldojr/multiscrapper/internal/scrape"
)

const (
	summaryPrompt = "Summarize this video transcript with key takeaways and timestamp-style headings: %s"
	tablePrompt   = "Extract product names, prices, and features into a markdown table from this text:\n\n%s"
	tableTextCap  = 8000
	pdfTimeout    = 30 * time.Second

	visionModel         = "gemini-2.0-flash"
	visionFallbackModel = "gemini-1.5-flash"

	transcriptUnavailable = "⚠️ **Transcript Unavailable**\n\nI couldn't retrieve the subtitles for this video. This happens if:\n1. The video has disabled captions.\n2. The video is too new or too short.\n3. It's a music video or auto-generated clip.\n\n**Error Details:** %v"
)

type Service struct {
	scraper     scrape.Scraper
	transcripts extract.TranscriptFetcher
	factory     llm.ModelFactory
	models      rag.ModelResolver
	invoker     rag.Invoker
	shot        string
}

// NewService wires the content tasks. screenshotPath is the file the scraper
// writes; vision requests may only read that file.
func NewService(
	scraper scrape.Scraper,
	transcripts extract.TranscriptFetcher,
	factory llm.ModelFactory,
	models rag.ModelResolver,
	invoker rag.Invoker,
	screenshotPath string,
) *Service {
	shot, err := filepath.Abs(screenshotPath)
	if err != nil {
		shot = filepath.Clean(screenshotPath)
	}
	return &Service{
		scraper:     scraper,
		transcripts: transcripts,
		factory:     factory,
		models:      models,
		invoker:     invoker,
		shot:        shot,
	}
}

// SummarizeVideo fetches the transcript and summarises it. A video without
// subtitles is not an error: the caller gets an explanation as the summary.
func (s *Service) SummarizeVideo(ctx context.Context, req VideoRequest) (*VideoResponse, error) {
	id, ok := extract.VideoID(req.URL)
	if !ok {
		return nil, apperr.New(apperr.ErrInvalidInput, "Invalid YouTube URL")
	}
	log.Info().Str("video_id", id).Msg("fetching transcript")

	text, err := s.transcripts.Transcript(ctx, id)
	if err != nil {
		log.Warn().Err(err).Str("video_id", id).Msg("transcript error")
		return &VideoResponse{Summary: fmt.Sprintf(transcriptUnavailable, err)}, nil
	}

	out, err := s.generate(ctx, req.Provider, req.Credentials, fmt.Sprintf(summaryPrompt, text))
	if err != nil {
		return nil, err
	}
	return &VideoResponse{Summary: rag.StripEmphasis(out)}, nil
}

// ExtractTable asks the model for a markdown table of the products in text. Only
// the first 8000 characters are sent.
func (s *Service) ExtractTable(ctx context.Context, req TableRequest) (*TableResponse, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, apperr.New(apperr.ErrInvalidInput, "text is required")
	}
	prompt := fmt.Sprintf(tablePrompt, llm.Truncate(req.Text, tableTextCap))

	out, err := s.generate(ctx, req.Provider, req.Credentials, prompt)
	if err != nil {
		return nil, err
	}
	return &TableResponse{Table: out}, nil
}

// AnalyzeImage sends a screenshot and a prompt to the Gemini vision model, trying
// the 1.5 model once when 2.0 is out of quota.
func (s *Service) AnalyzeImage(ctx context.Context, req VisionRequest) (*VisionResponse, error) {
	if req.APIKey == "" {
		return nil, apperr.New(apperr.ErrConfiguration, "Google API Key missing")
	}
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, apperr.New(apperr.ErrInvalidInput, "prompt is required")
	}

	path, err := s.screenshotFile(req.ImagePath)
	if err != nil {
		return nil, err
	}
	img, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperr.New(apperr.ErrNotFound, "No screenshot available")
		}
		return nil, fmt.Errorf("read image: %w", err)
	}
	mime := http.DetectContentType(img)
	if !strings.HasPrefix(mime, "image/") {
		return nil, apperr.New(apperr.ErrInvalidInput, "image_path does not hold an image")
	}

	out, err := s.analyze(ctx, req.APIKey, visionModel, req.Prompt, img, mime)
	if err != nil && llm.Classify(err) == llm.CategoryQuota {
		log.Warn().Err(err).Str("retry", visionFallbackModel).Msg("vision quota reached")
		out, err = s.analyze(ctx, req.APIKey, visionFallbackModel, req.Prompt, img, mime)
		if err != nil && llm.Classify(err) == llm.CategoryQuota {
			return nil, apperr.Wrap(apperr.ErrQuotaExceeded, err, "Gemini Quota Exceeded. Please wait a minute and try again.")
		}
	}
	if err != nil {
		return nil, err
	}
	return &VisionResponse{Analysis: out}, nil
}

func (s *Service) analyze(ctx context.Context, key, model, prompt string, img []byte, mime string) (string, error) {
	vm, err := s.factory.Vision(ctx, key, model)
	if err != nil {
		return "", err
	}
	return vm.Analyze(ctx, prompt, img, mime)
}

// screenshotFile resolves p and refuses anything but the scraper's screenshot.
func (s *Service) screenshotFile(p string) (string, error) {
	if strings.TrimSpace(p) == "" {
		return "", apperr.New(apperr.ErrInvalidInput, "image_path is required")
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", apperr.Wrap(apperr.ErrInvalidInput, err, "invalid image_path")
	}
	if resolve(abs) != resolve(s.shot) {
		return "", apperr.New(apperr.ErrInvalidInput, "image_path must point to a scraped screenshot")
	}
	return abs, nil
}

// resolve follows symlinks when the file exists.
func resolve(p string) string {
	if real, err := filepath.EvalSymlinks(p); err == nil {
		return real
	}
	return p
}

// ScrapePage renders the URL and returns its visible text and language, and its
// Markdown when the mode asks for it.
func (s *Service) ScrapePage(ctx context.Context, req ScrapeRequest) (*ScrapeResponse, error) {
	page, err := s.scraper.Scrape(ctx, req.URL)
	if err != nil {
		return nil, err
	}

	text, err := scrape.Clean(page.HTML)
	if err != nil {
		return nil, err
	}
	resp := &ScrapeResponse{
		Text:       text,
		Screenshot: page.ScreenshotPath,
		Language:   extract.DetectLanguage(text),
	}

	if strings.Contains(strings.ToLower(req.Mode), "markdown") {
		body, err := scrape.CleanHTML(page.HTML)
		if err != nil {
			return nil, err
		}
		if resp.Markdown, err = extract.Markdown(body); err != nil {
			return nil, err
		}
	}
	return resp, nil
}

// VectorizePDF extracts the text of an uploaded PDF so it can be asked about.
func (s *Service) VectorizePDF(ctx context.Context, data []byte) (*PDFResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, pdfTimeout)
	defer cancel()

	doc, err := extract.ReadPDF(ctx, data)
	if err != nil {
		return nil, err
	}
	log.Info().Int("pages", doc.PageCount).Int("chars", len(doc.Text)).Msg("pdf extracted")
	return &PDFResponse{
		Text:      doc.Text,
		PageCount: doc.PageCount,
		Language:  extract.DetectLanguage(doc.Text),
	}, nil
}

func (s *Service) generate(ctx context.Context, provider llm.Provider, creds llm.Credentials, prompt string) (string, error) {
	model, err := s.models.Resolve(ctx, provider, creds)
	if err != nil {
		return "", err
	}
	return s.invoker.Invoke(ctx, model, prompt, creds)
}
