package llm

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/josinaldojr/multiscrapper/internal/apperr"
)

const (
	// DefaultGeminiModel is used when the listing fails or nothing in it matches.
	DefaultGeminiModel = "gemini-1.5-flash"

	generateContentAction = "generateContent"
	geminiFamily          = "gemini"
)

var (
	flash20Candidates = []string{"gemini-2.0-flash", "gemini-2.0-flash-exp"}
	flash15Candidates = []string{"gemini-1.5-flash", "gemini-1.5-flash-latest", "gemini-1.5-flash-001"}
	genericCandidates = []string{"gemini-pro", "gemini-1.5-pro", "gemini-1.0-pro"}
)

// Selector turns a provider choice plus credentials into an invocable model.
type Selector struct {
	factory ModelFactory
	cache   ModelNameCache
}

func NewSelector(factory ModelFactory, cache ModelNameCache) *Selector {
	return &Selector{factory: factory, cache: cache}
}

// Resolve returns Groq directly when it is asked for and a Groq key is present.
// Everything else goes to Gemini, which needs the primary key; the Gemini model id is
// validated against the key's listing once and then served from the cache.
func (s *Selector) Resolve(ctx context.Context, provider Provider, creds Credentials) (Model, error) {
	if provider == ProviderGroqLlama && creds.Secondary != "" {
		return s.factory.Groq(creds.Secondary)
	}

	if creds.Primary == "" {
		return nil, apperr.New(apperr.ErrConfiguration, "No valid API key provided for selected model")
	}

	name, ok, err := s.cache.Get(ctx, creds.Primary)
	if err != nil {
		log.Warn().Err(err).Msg("model cache lookup failed")
	}
	if ok && name != "" {
		log.Debug().Str("model", name).Msg("using cached model")
		return s.factory.Gemini(ctx, creds.Primary, name)
	}

	name = s.validatedModel(ctx, provider, creds.Primary)
	log.Info().Str("provider", string(provider)).Str("model", name).Msg("selected validated model")

	if err := s.cache.Set(ctx, creds.Primary, name); err != nil {
		log.Warn().Err(err).Msg("model cache store failed")
	}
	return s.factory.Gemini(ctx, creds.Primary, name)
}

func (s *Selector) validatedModel(ctx context.Context, provider Provider, apiKey string) string {
	listing, err := s.factory.ListModels(ctx, apiKey)
	if err != nil {
		log.Warn().Err(err).Str("fallback", DefaultGeminiModel).Msg("could not list models")
		return DefaultGeminiModel
	}

	available := make([]string, 0, len(listing))
	for _, m := range listing {
		if m.Supports(generateContentAction) {
			available = append(available, strings.TrimPrefix(m.Name, "models/"))
		}
	}
	log.Debug().Strs("models", available).Msg("available google models")

	preferred := flash15Candidates
	if strings.Contains(string(provider), "2.0") {
		preferred = flash20Candidates
	}

	if name := firstAvailable(preferred, available); name != "" {
		return name
	}
	if name := firstAvailable(genericCandidates, available); name != "" {
		return name
	}
	for _, name := range available {
		if strings.Contains(name, geminiFamily) {
			return name
		}
	}
	return DefaultGeminiModel
}

func firstAvailable(candidates, available []string) string {
	for _, c := range candidates {
		for _, a := range available {
			if c == a {
				return c
			}
		}
	}
	return ""
}
