package rag

import "github.com/josinaldojr/multiscrapper/internal/llm"

// AskRequest is one question over one ingested document.
type AskRequest struct {
	Text        string
	Question    string
	Provider    llm.Provider
	Credentials llm.Credentials
}

// AskResponse is what /api/ask answers.
type AskResponse struct {
	Answer string `json:"answer"`
}

// Chunk is a retrieved piece of the document.
type Chunk struct {
	Ordinal int
	Content string
	Score   float32
}
