package llm

import (
	"context"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/josinaldojr/multiscrapper/internal/apperr"
)

const (
	// NotFoundFallbackModel is retried when the selected model does not exist.
	NotFoundFallbackModel = "gemini-pro"
	// NotFoundPromptLimit and QuotaPromptLimit bound the prompt of the single retry,
	// in characters.
	NotFoundPromptLimit = 30000
	QuotaPromptLimit    = 15000

	quotaMessage = "Gemini Quota Exceeded. Please wait a minute OR enter a Groq API Key in settings for instant infinite fallback."
)

// Policy invokes a model and retries at most once on another one when the failure
// says the model is missing or the quota is gone.
type Policy struct {
	factory    ModelFactory
	envGroqKey string
}

// NewPolicy takes the process-level Groq key, used when the request carries none.
func NewPolicy(factory ModelFactory, envGroqKey string) *Policy {
	return &Policy{factory: factory, envGroqKey: envGroqKey}
}

func (p *Policy) Invoke(ctx context.Context, model Model, prompt string, creds Credentials) (string, error) {
	out, err := model.Generate(ctx, prompt)
	if err == nil {
		return out, nil
	}

	switch Classify(err) {
	case CategoryNotFound:
		if creds.Primary == "" {
			return "", err
		}
		log.Warn().Err(err).Str("model", model.Name()).Str("retry", NotFoundFallbackModel).Msg("model not found, trying fallback model")
		fallback, ferr := p.factory.Gemini(ctx, creds.Primary, NotFoundFallbackModel)
		if ferr != nil {
			return "", ferr
		}
		return fallback.Generate(ctx, Truncate(prompt, NotFoundPromptLimit))

	case CategoryQuota:
		key := creds.Secondary
		if key == "" {
			key = p.envGroqKey
		}
		if key == "" {
			return "", apperr.Wrap(apperr.ErrQuotaExceeded, err, quotaMessage)
		}
		log.Warn().Err(err).Str("model", model.Name()).Msg("gemini limit reached, falling back to groq")
		fallback, ferr := p.factory.Groq(key)
		if ferr != nil {
			return "", ferr
		}
		return fallback.Generate(ctx, Truncate(prompt, QuotaPromptLimit))
	}

	return "", err
}

// Truncate keeps the first limit characters of s.
func Truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}
