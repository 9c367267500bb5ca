package assistant

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josinaldojr/multiscrapper/internal/apperr"
	"github.com/josinaldojr/multiscrapper/internal/llm"
	"github.com/josinaldojr/multiscrapper/internal/llm/llmtest"
	"github.com/josinaldojr/multiscrapper/internal/scrape"
)

type fakeScraper struct {
	html string
	path string
	err  error
}

func (f *fakeScraper) Scrape(_ context.Context, rawURL string) (*scrape.Page, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &scrape.Page{URL: rawURL, HTML: f.html, ScreenshotPath: f.path}, nil
}

type fakeTranscripts struct {
	text string
	err  error
	ids  []string
}

func (f *fakeTranscripts) Transcript(_ context.Context, id string) (string, error) {
	f.ids = append(f.ids, id)
	return f.text, f.err
}

type harness struct {
	svc         *Service
	factory     *llmtest.Factory
	scraper     *fakeScraper
	transcripts *fakeTranscripts
	shot        string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()
	shot := filepath.Join(dir, "page.png")

	f := llmtest.NewFactory()
	f.Listing = llmtest.Listing("gemini-2.0-flash")
	sc := &fakeScraper{path: shot}
	tr := &fakeTranscripts{}

	svc := NewService(sc, tr, f, llm.NewSelector(f, llm.NewMemoryModelCache()), llm.NewPolicy(f, ""), shot)
	return &harness{svc: svc, factory: f, scraper: sc, transcripts: tr, shot: shot}
}

var googleOnly = llm.Credentials{Primary: "g-key"}

func TestSummarizeVideo(t *testing.T) {
	h := newHarness(t)
	h.transcripts.text = "hello and welcome"
	model := h.factory.Set(&llmtest.Model{ModelName: "gemini-2.0-flash", Reply: "**Intro** welcome"})

	resp, err := h.svc.SummarizeVideo(context.Background(), VideoRequest{
		URL:         "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		Provider:    llm.ProviderGeminiFlash20,
		Credentials: googleOnly,
	})
	require.NoError(t, err)
	assert.Equal(t, "Intro welcome", resp.Summary)
	assert.Equal(t, []string{"dQw4w9WgXcQ"}, h.transcripts.ids)
	assert.Equal(t, "Summarize this video transcript with key takeaways and timestamp-style headings: hello and welcome", model.LastPrompt())
}

func TestSummarizeVideoInvalidURL(t *testing.T) {
	h := newHarness(t)
	_, err := h.svc.SummarizeVideo(context.Background(), VideoRequest{URL: "https://example.com"})
	require.ErrorIs(t, err, apperr.ErrInvalidInput)
	assert.Equal(t, "Invalid YouTube URL", err.Error())
}

func TestSummarizeVideoWithoutTranscriptIsExplained(t *testing.T) {
	h := newHarness(t)
	h.transcripts.err = errors.New("captions disabled")

	resp, err := h.svc.SummarizeVideo(context.Background(), VideoRequest{
		URL:         "https://youtu.be/dQw4w9WgXcQ",
		Credentials: googleOnly,
	})
	require.NoError(t, err)
	assert.Contains(t, resp.Summary, "Transcript Unavailable")
	assert.Contains(t, resp.Summary, "captions disabled")
	assert.Zero(t, h.factory.ListCalls["g-key"])
}

func TestExtractTableTruncatesText(t *testing.T) {
	h := newHarness(t)
	model := h.factory.Set(&llmtest.Model{ModelName: "gemini-2.0-flash", Reply: "| a | b |"})

	resp, err := h.svc.ExtractTable(context.Background(), TableRequest{
		Text:        strings.Repeat("x", 9000),
		Provider:    llm.ProviderGeminiFlash20,
		Credentials: googleOnly,
	})
	require.NoError(t, err)
	assert.Equal(t, "| a | b |", resp.Table)

	want := "Extract product names, prices, and features into a markdown table from this text:\n\n" + strings.Repeat("x", 8000)
	assert.Equal(t, want, model.LastPrompt())
}

func TestExtractTableUsesGroqWhenAsked(t *testing.T) {
	h := newHarness(t)
	h.factory.Set(&llmtest.Model{ModelName: llmtest.GroqName, Reply: "groq table"})

	resp, err := h.svc.ExtractTable(context.Background(), TableRequest{
		Text:        "Widget $10",
		Provider:    llm.ProviderGroqLlama,
		Credentials: llm.Credentials{Secondary: "groq-key"},
	})
	require.NoError(t, err)
	assert.Equal(t, "groq table", resp.Table)
}

func TestAnalyzeImage(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, os.WriteFile(h.shot, []byte("\x89PNG\r\n\x1a\nfake"), 0o644))

	resp, err := h.svc.AnalyzeImage(context.Background(), VisionRequest{ImagePath: h.shot, Prompt: "What is shown?", APIKey: "g-key"})
	require.NoError(t, err)
	assert.Equal(t, "vision from gemini-2.0-flash", resp.Analysis)
}

func TestAnalyzeImageQuotaTriesOlderModel(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, os.WriteFile(h.shot, []byte("\x89PNG\r\n\x1a\nfake"), 0o644))
	h.factory.Visions["gemini-2.0-flash"] = &llmtest.VisionModel{ModelName: "gemini-2.0-flash", Err: errors.New("429 RESOURCE_EXHAUSTED")}

	resp, err := h.svc.AnalyzeImage(context.Background(), VisionRequest{ImagePath: h.shot, Prompt: "p", APIKey: "g-key"})
	require.NoError(t, err)
	assert.Equal(t, "vision from gemini-1.5-flash", resp.Analysis)
}

func TestAnalyzeImageQuotaOnBothModels(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, os.WriteFile(h.shot, []byte("\x89PNG\r\n\x1a\nfake"), 0o644))
	for _, name := range []string{"gemini-2.0-flash", "gemini-1.5-flash"} {
		h.factory.Visions[name] = &llmtest.VisionModel{ModelName: name, Err: errors.New("429 RESOURCE_EXHAUSTED")}
	}

	_, err := h.svc.AnalyzeImage(context.Background(), VisionRequest{ImagePath: h.shot, Prompt: "p", APIKey: "g-key"})
	require.ErrorIs(t, err, apperr.ErrQuotaExceeded)
	assert.Equal(t, "Gemini Quota Exceeded. Please wait a minute and try again.", err.Error())
}

func TestAnalyzeImageReadsOnlyTheScreenshot(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(".env", []byte("GROQ_API_KEY=secret\n"), 0o600))
	require.NoError(t, os.WriteFile("other.png", []byte("\x89PNG\r\n\x1a\nfake"), 0o644))

	f := llmtest.NewFactory()
	vm := &llmtest.VisionModel{ModelName: "gemini-2.0-flash", Reply: "seen"}
	f.Visions["gemini-2.0-flash"] = vm
	svc := NewService(&fakeScraper{}, &fakeTranscripts{}, f, llm.NewSelector(f, llm.NewMemoryModelCache()), llm.NewPolicy(f, ""), "page.png")

	for _, p := range []string{".env", filepath.Join(dir, ".env"), "other.png"} {
		_, err := svc.AnalyzeImage(context.Background(), VisionRequest{ImagePath: p, Prompt: "p", APIKey: "k"})
		assert.ErrorIs(t, err, apperr.ErrInvalidInput, p)
	}
	assert.Empty(t, vm.Images)

	require.NoError(t, os.Symlink(".env", "page.png"))
	_, err := svc.AnalyzeImage(context.Background(), VisionRequest{ImagePath: "page.png", Prompt: "p", APIKey: "k"})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
	assert.Empty(t, vm.Images)
}

func TestAnalyzeImageRejectsNonImages(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, os.WriteFile(h.shot, []byte("GOOGLE_API_KEY=secret\n"), 0o644))

	_, err := h.svc.AnalyzeImage(context.Background(), VisionRequest{ImagePath: h.shot, Prompt: "p", APIKey: "k"})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestAnalyzeImageChecks(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.svc.AnalyzeImage(ctx, VisionRequest{ImagePath: h.shot, Prompt: "p"})
	require.ErrorIs(t, err, apperr.ErrConfiguration)
	assert.Equal(t, "Google API Key missing", err.Error())

	_, err = h.svc.AnalyzeImage(ctx, VisionRequest{ImagePath: "/etc/passwd", Prompt: "p", APIKey: "k"})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	_, err = h.svc.AnalyzeImage(ctx, VisionRequest{ImagePath: filepath.Join(filepath.Dir(h.shot), "..", "x.png"), Prompt: "p", APIKey: "k"})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	_, err = h.svc.AnalyzeImage(ctx, VisionRequest{ImagePath: h.shot, Prompt: "p", APIKey: "k"})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestScrapePage(t *testing.T) {
	h := newHarness(t)
	h.scraper.html = "<html><body><nav>Menu</nav><h1>Widget</h1><p>The widget costs ten dollars and ships in a sturdy box to every country.</p></body></html>"

	resp, err := h.svc.ScrapePage(context.Background(), ScrapeRequest{URL: "https://example.com", Mode: "rag"})
	require.NoError(t, err)
	assert.Equal(t, "Widget The widget costs ten dollars and ships in a sturdy box to every country.", resp.Text)
	assert.Equal(t, h.shot, resp.Screenshot)
	assert.Equal(t, "en", resp.Language)
	assert.Empty(t, resp.Markdown)

	resp, err = h.svc.ScrapePage(context.Background(), ScrapeRequest{URL: "https://example.com", Mode: "Markdown"})
	require.NoError(t, err)
	assert.Contains(t, resp.Markdown, "# Widget")
	assert.NotContains(t, resp.Markdown, "Menu")
}

func TestScrapePagePassesBrowserErrors(t *testing.T) {
	h := newHarness(t)
	h.scraper.err = apperr.New(apperr.ErrUpstreamUnavailable, "Failed to start Chrome.")

	_, err := h.svc.ScrapePage(context.Background(), ScrapeRequest{URL: "https://example.com"})
	assert.ErrorIs(t, err, apperr.ErrUpstreamUnavailable)
}

func TestVectorizePDFRejectsGarbage(t *testing.T) {
	h := newHarness(t)
	_, err := h.svc.VectorizePDF(context.Background(), []byte("nope"))
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestVectorizePDFStopsOnCancelledContext(t *testing.T) {
	h := newHarness(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := h.svc.VectorizePDF(ctx, []byte("%PDF-1.4\n"))
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}
