package llm_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josinaldojr/multiscrapper/internal/apperr"
	"github.com/josinaldojr/multiscrapper/internal/llm"
	"github.com/josinaldojr/multiscrapper/internal/llm/llmtest"
)

func TestResolvePicksCandidate(t *testing.T) {
	cases := []struct {
		name     string
		provider llm.Provider
		listing  []llm.ModelInfo
		want     string
	}{
		{
			name:     "2.0 preferred over 1.5",
			provider: llm.ProviderGeminiFlash20,
			listing:  llmtest.Listing("gemini-1.5-flash", "gemini-2.0-flash-exp", "gemini-2.0-flash"),
			want:     "gemini-2.0-flash",
		},
		{
			name:     "2.0 exp when plain 2.0 missing",
			provider: llm.ProviderGeminiFlash20,
			listing:  llmtest.Listing("gemini-1.5-flash", "gemini-2.0-flash-exp"),
			want:     "gemini-2.0-flash-exp",
		},
		{
			name:     "1.5 provider ignores 2.0",
			provider: llm.ProviderGeminiFlash15,
			listing:  llmtest.Listing("gemini-2.0-flash", "gemini-1.5-flash-latest"),
			want:     "gemini-1.5-flash-latest",
		},
		{
			name:     "generic candidates",
			provider: llm.ProviderGeminiFlash20,
			listing:  llmtest.Listing("gemini-1.5-pro", "gemini-pro"),
			want:     "gemini-pro",
		},
		{
			name:     "first gemini family model",
			provider: llm.ProviderGeminiFlash20,
			listing:  llmtest.Listing("text-bison", "gemini-2.5-flash", "gemini-exp-1206"),
			want:     "gemini-2.5-flash",
		},
		{
			name:     "nothing usable",
			provider: llm.ProviderGeminiFlash20,
			listing:  llmtest.Listing("text-bison"),
			want:     llm.DefaultGeminiModel,
		},
		{
			name:     "groq without groq key goes to gemini 1.5 list",
			provider: llm.ProviderGroqLlama,
			listing:  llmtest.Listing("gemini-2.0-flash", "gemini-1.5-flash"),
			want:     "gemini-1.5-flash",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := llmtest.NewFactory()
			f.Listing = tc.listing
			s := llm.NewSelector(f, llm.NewMemoryModelCache())

			m, err := s.Resolve(context.Background(), tc.provider, llm.Credentials{Primary: "g-key"})
			require.NoError(t, err)
			assert.Equal(t, tc.want, m.Name())
		})
	}
}

func TestResolveIgnoresModelsWithoutGenerateContent(t *testing.T) {
	f := llmtest.NewFactory()
	f.Listing = []llm.ModelInfo{
		{Name: "models/gemini-2.0-flash", SupportedActions: []string{"embedContent"}},
		{Name: "models/gemini-1.5-flash", SupportedActions: []string{"generateContent"}},
	}
	s := llm.NewSelector(f, llm.NewMemoryModelCache())

	m, err := s.Resolve(context.Background(), llm.ProviderGeminiFlash20, llm.Credentials{Primary: "g-key"})
	require.NoError(t, err)
	assert.Equal(t, "gemini-1.5-flash", m.Name())
}

func TestResolveListsOncePerCredential(t *testing.T) {
	f := llmtest.NewFactory()
	f.Listing = llmtest.Listing("gemini-2.0-flash")
	s := llm.NewSelector(f, llm.NewMemoryModelCache())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		m, err := s.Resolve(ctx, llm.ProviderGeminiFlash20, llm.Credentials{Primary: "key-a"})
		require.NoError(t, err)
		assert.Equal(t, "gemini-2.0-flash", m.Name())
	}
	// a different provider string still hits the cache for the same key
	_, err := s.Resolve(ctx, llm.ProviderGeminiFlash15, llm.Credentials{Primary: "key-a"})
	require.NoError(t, err)

	_, err = s.Resolve(ctx, llm.ProviderGeminiFlash20, llm.Credentials{Primary: "key-b"})
	require.NoError(t, err)

	assert.Equal(t, 1, f.ListCalls["key-a"])
	assert.Equal(t, 1, f.ListCalls["key-b"])
}

func TestResolveListingFailureDefaultsAndCaches(t *testing.T) {
	f := llmtest.NewFactory()
	f.ListErr = errors.New("permission denied")
	cache := llm.NewMemoryModelCache()
	s := llm.NewSelector(f, cache)
	ctx := context.Background()

	m, err := s.Resolve(ctx, llm.ProviderGeminiFlash20, llm.Credentials{Primary: "k"})
	require.NoError(t, err)
	assert.Equal(t, llm.DefaultGeminiModel, m.Name())

	cached, ok, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, llm.DefaultGeminiModel, cached)
}

func TestResolveGroqWithKeySkipsValidation(t *testing.T) {
	f := llmtest.NewFactory()
	s := llm.NewSelector(f, llm.NewMemoryModelCache())

	m, err := s.Resolve(context.Background(), llm.ProviderGroqLlama, llm.Credentials{Secondary: "groq-key"})
	require.NoError(t, err)
	assert.Equal(t, llmtest.GroqName, m.Name())
	assert.Empty(t, f.ListCalls)
}

func TestResolveWithoutPrimaryKey(t *testing.T) {
	s := llm.NewSelector(llmtest.NewFactory(), llm.NewMemoryModelCache())

	_, err := s.Resolve(context.Background(), llm.ProviderGeminiFlash20, llm.Credentials{Secondary: "groq-key"})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrConfiguration)
	assert.Equal(t, "No valid API key provided for selected model", err.Error())
}

func TestParseProvider(t *testing.T) {
	assert.Equal(t, llm.DefaultProvider, llm.ParseProvider("  "))
	assert.Equal(t, llm.ProviderGroqLlama, llm.ParseProvider(" Groq (Llama 3) "))
}
