package assistant

import "github.com/josinaldojr/multiscrapper/internal/llm"

// VideoRequest asks for a summary of a YouTube video.
type VideoRequest struct {
	URL         string
	Provider    llm.Provider
	Credentials llm.Credentials
}

type VideoResponse struct {
	Summary string `json:"summary"`
}

// TableRequest asks for a markdown product table built from scraped text.
type TableRequest struct {
	Text        string
	Provider    llm.Provider
	Credentials llm.Credentials
}

type TableResponse struct {
	Table string `json:"table"`
}

// VisionRequest asks a question about a screenshot on disk.
type VisionRequest struct {
	ImagePath string
	Prompt    string
	APIKey    string
}

type VisionResponse struct {
	Analysis string `json:"analysis"`
}

// ScrapeRequest renders a page. Mode containing "markdown" also returns the page
// as Markdown.
type ScrapeRequest struct {
	URL  string
	Mode string
}

type ScrapeResponse struct {
	Text       string `json:"text"`
	Screenshot string `json:"screenshot"`
	Language   string `json:"language"`
	Markdown   string `json:"markdown,omitempty"`
}

type PDFResponse struct {
	Text      string `json:"text"`
	PageCount int    `json:"page_count"`
	Language  string `json:"language"`
}
