// Package scrape renders pages in headless Chrome and reduces their HTML to the
// visible text.
package scrape

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog/log"

	"github.com/josinaldojr/multiscrapper/internal/apperr"
)

// Page is one rendered page.
type Page struct {
	URL            string
	HTML           string
	ScreenshotPath string
}

// Scraper loads a URL and returns its rendered HTML plus a screenshot on disk.
type Scraper interface {
	Scrape(ctx context.Context, rawURL string) (*Page, error)
}

// Browser starts a fresh headless Chrome per call. Every call overwrites the same
// screenshot file.
type Browser struct {
	screenshotPath string
	wait           time.Duration
}

func NewBrowser(screenshotPath string, wait time.Duration) *Browser {
	return &Browser{screenshotPath: screenshotPath, wait: wait}
}

func (b *Browser) Scrape(ctx context.Context, rawURL string) (*Page, error) {
	if err := ValidateURL(rawURL); err != nil {
		return nil, err
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	// An empty run only launches the browser.
	if err := chromedp.Run(browserCtx); err != nil {
		log.Error().Err(err).Msg("driver error")
		return nil, apperr.Wrap(apperr.ErrUpstreamUnavailable, err,
			"Failed to start Chrome. Make sure Google Chrome is installed on your system. Error: %v", err)
	}

	var html string
	var shot []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(rawURL),
		chromedp.Sleep(b.wait),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
		chromedp.FullScreenshot(&shot, 100),
	)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrUpstreamUnavailable, err, "failed to load %s: %v", rawURL, err)
	}

	if dir := filepath.Dir(b.screenshotPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create screenshot dir: %w", err)
		}
	}
	if err := os.WriteFile(b.screenshotPath, shot, 0o644); err != nil {
		return nil, fmt.Errorf("write screenshot: %w", err)
	}

	log.Info().Str("url", rawURL).Int("html_bytes", len(html)).Str("screenshot", b.screenshotPath).Msg("page scraped")
	return &Page{URL: rawURL, HTML: html, ScreenshotPath: b.screenshotPath}, nil
}

// ValidateURL accepts absolute http and https URLs only.
func ValidateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return apperr.New(apperr.ErrInvalidInput, "invalid URL: %s (must include scheme, e.g. https://example.com)", rawURL)
	}
	return nil
}

var _ Scraper = (*Browser)(nil)
