package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

const (
	groqBaseURL = "https://api.groq.com/openai/v1"
	groqModel   = "llama-3.3-70b-versatile"
)

// GroqModel talks to Groq through its OpenAI-compatible endpoint.
type GroqModel struct {
	llm  *openai.LLM
	name string
}

func NewGroqModel(apiKey string) (*GroqModel, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("missing Groq API key")
	}
	llm, err := openai.New(
		openai.WithBaseURL(groqBaseURL),
		openai.WithToken(strings.TrimPrefix(apiKey, "Bearer ")),
		openai.WithModel(groqModel),
	)
	if err != nil {
		return nil, fmt.Errorf("create groq client: %w", err)
	}
	return &GroqModel{llm: llm, name: groqModel}, nil
}

func (m *GroqModel) Name() string { return m.name }

func (m *GroqModel) Generate(ctx context.Context, prompt string) (string, error) {
	out, err := llms.GenerateFromSinglePrompt(ctx, m.llm, prompt, llms.WithTemperature(temperature))
	if err != nil {
		return "", fmt.Errorf("groq completion error: %w", err)
	}
	return strings.TrimSpace(out), nil
}

var _ Model = (*GroqModel)(nil)
