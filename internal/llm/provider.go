package llm

import (
	"context"
	"strings"
)

// Provider is the engine a caller asks for. It is free text on the wire; the selector
// only looks at whether it is the Groq choice and whether it names a 2.0 variant.
type Provider string

const (
	ProviderGeminiFlash20 Provider = "Gemini (Flash 2.0)"
	ProviderGeminiFlash15 Provider = "Gemini (Flash 1.5)"
	ProviderGroqLlama     Provider = "Groq (Llama 3)"

	DefaultProvider = ProviderGeminiFlash20
)

// Providers lists the choices offered to users, default first.
var Providers = []Provider{ProviderGeminiFlash20, ProviderGeminiFlash15, ProviderGroqLlama}

// ParseProvider trims s and falls back to the default provider when it is empty.
func ParseProvider(s string) Provider {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultProvider
	}
	return Provider(s)
}

// Credentials are the per-request vendor keys. Primary is the Google key, Secondary
// the Groq key. Either may be empty.
type Credentials struct {
	Primary   string
	Secondary string
}

// Model is a remote text model ready to be invoked.
type Model interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// VisionModel answers a prompt about an image.
type VisionModel interface {
	Name() string
	Analyze(ctx context.Context, prompt string, image []byte, mimeType string) (string, error)
}

// ModelInfo is one entry of the primary vendor's model listing.
type ModelInfo struct {
	Name             string
	SupportedActions []string
}

// Supports reports whether the model lists the given generation method.
func (m ModelInfo) Supports(action string) bool {
	for _, a := range m.SupportedActions {
		if a == action {
			return true
		}
	}
	return false
}

// ModelFactory builds vendor clients. The selector and the fallback policy only talk
// to vendors through it, which keeps both testable without network access.
type ModelFactory interface {
	Gemini(ctx context.Context, apiKey, model string) (Model, error)
	Groq(apiKey string) (Model, error)
	ListModels(ctx context.Context, apiKey string) ([]ModelInfo, error)
	Vision(ctx context.Context, apiKey, model string) (VisionModel, error)
}
