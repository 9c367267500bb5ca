package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const (
	embeddingModel = "models/text-embedding-004"
	embedDim       = 768
	temperature    = 0.3
)

// GeminiClient wraps a genai client bound to one API key.
type GeminiClient struct {
	client *genai.Client
}

func NewGeminiClient(ctx context.Context, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("missing Google API key")
	}

	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &GeminiClient{client: c}, nil
}

// ListModels returns every model visible to the key.
func (g *GeminiClient) ListModels(ctx context.Context) ([]ModelInfo, error) {
	var out []ModelInfo
	for m, err := range g.client.Models.All(ctx) {
		if err != nil {
			return nil, fmt.Errorf("gemini list models: %w", err)
		}
		out = append(out, ModelInfo{Name: m.Name, SupportedActions: m.SupportedActions})
	}
	return out, nil
}

// Model returns a text model using the given model id.
func (g *GeminiClient) Model(name string) *GeminiModel {
	return &GeminiModel{client: g.client, name: name}
}

func (g *GeminiClient) Embed(ctx context.Context, text string) ([]float32, error) {
	clean := normalizeWhitespace(text)
	if clean == "" {
		return nil, fmt.Errorf("empty text for embedding")
	}

	resp, err := g.client.Models.EmbedContent(
		ctx,
		embeddingModel,
		genai.Text(clean),
		&genai.EmbedContentConfig{
			OutputDimensionality: genai.Ptr(int32(embedDim)),
		},
	)
	if err != nil {
		return nil, fmt.Errorf("gemini embed error: %w", err)
	}

	if len(resp.Embeddings) == 0 {
		return nil, fmt.Errorf("no embeddings returned")
	}

	values := resp.Embeddings[0].Values
	if len(values) != embedDim {
		return nil, fmt.Errorf("unexpected embedding size %d (expected %d)", len(values), embedDim)
	}

	out := make([]float32, embedDim)
	for i, v := range values {
		out[i] = float32(v)
	}
	return out, nil
}

// GeminiModel is one Gemini model id on a client.
type GeminiModel struct {
	client *genai.Client
	name   string
}

func (m *GeminiModel) Name() string { return m.name }

func (m *GeminiModel) Generate(ctx context.Context, prompt string) (string, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(temperature)),
	}

	resp, err := m.client.Models.GenerateContent(ctx, m.name, genai.Text(prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("gemini generateContent error: %w", err)
	}
	if resp == nil {
		return "", fmt.Errorf("empty response from gemini")
	}

	txt := strings.TrimSpace(resp.Text())
	if txt == "" {
		return "", fmt.Errorf("model returned empty text")
	}
	return txt, nil
}

func (m *GeminiModel) Analyze(ctx context.Context, prompt string, image []byte, mimeType string) (string, error) {
	parts := []*genai.Part{
		genai.NewPartFromText(prompt),
		genai.NewPartFromBytes(image, mimeType),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	resp, err := m.client.Models.GenerateContent(ctx, m.name, contents, nil)
	if err != nil {
		return "", fmt.Errorf("gemini vision error: %w", err)
	}
	if resp == nil {
		return "", fmt.Errorf("empty response from gemini")
	}
	return resp.Text(), nil
}

func normalizeWhitespace(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		if r == ' ' || r == '\n' || r == '\r' || r == '\t' {
			if !space {
				b.WriteRune(' ')
				space = true
			}
		} else {
			b.WriteRune(r)
			space = false
		}
	}
	return b.String()
}

var _ Model = (*GeminiModel)(nil)
var _ VisionModel = (*GeminiModel)(nil)
