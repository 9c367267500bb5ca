package llm

import "context"

// Vendors is the production ModelFactory: real Gemini and Groq clients.
type Vendors struct{}

func NewVendors() *Vendors {
	return &Vendors{}
}

func (Vendors) Gemini(ctx context.Context, apiKey, model string) (Model, error) {
	c, err := NewGeminiClient(ctx, apiKey)
	if err != nil {
		return nil, err
	}
	return c.Model(model), nil
}

func (Vendors) Groq(apiKey string) (Model, error) {
	return NewGroqModel(apiKey)
}

func (Vendors) ListModels(ctx context.Context, apiKey string) ([]ModelInfo, error) {
	c, err := NewGeminiClient(ctx, apiKey)
	if err != nil {
		return nil, err
	}
	return c.ListModels(ctx)
}

func (Vendors) Vision(ctx context.Context, apiKey, model string) (VisionModel, error) {
	c, err := NewGeminiClient(ctx, apiKey)
	if err != nil {
		return nil, err
	}
	return c.Model(model), nil
}

var _ ModelFactory = Vendors{}
