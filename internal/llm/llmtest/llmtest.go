// Package llmtest provides in-memory fakes of the llm interfaces for tests.
package llmtest

import (
	"context"
	"sync"

	"github.com/josinaldojr/multiscrapper/internal/llm"
)

// GroqName is the name under which Factory registers the Groq model.
const GroqName = "groq"

// Model replies with Reply or fails with Err and records every prompt.
type Model struct {
	mu        sync.Mutex
	ModelName string
	Reply     string
	Err       error
	Prompts   []string
}

func (m *Model) Name() string { return m.ModelName }

func (m *Model) Generate(_ context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Prompts = append(m.Prompts, prompt)
	if m.Err != nil {
		return "", m.Err
	}
	return m.Reply, nil
}

// Calls returns how many times Generate ran.
func (m *Model) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Prompts)
}

// LastPrompt returns the most recent prompt, or "".
func (m *Model) LastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Prompts) == 0 {
		return ""
	}
	return m.Prompts[len(m.Prompts)-1]
}

// VisionModel is the image counterpart of Model.
type VisionModel struct {
	mu        sync.Mutex
	ModelName string
	Reply     string
	Err       error
	Images    [][]byte
}

func (m *VisionModel) Name() string { return m.ModelName }

func (m *VisionModel) Analyze(_ context.Context, _ string, image []byte, _ string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Images = append(m.Images, image)
	if m.Err != nil {
		return "", m.Err
	}
	return m.Reply, nil
}

// Factory hands out Models by name, creating a default one ("reply from <name>") on
// first use, and counts listing calls per key.
type Factory struct {
	mu        sync.Mutex
	Models    map[string]*Model
	Visions   map[string]*VisionModel
	Listing   []llm.ModelInfo
	ListErr   error
	ListCalls map[string]int
	Keys      []string
}

func NewFactory() *Factory {
	return &Factory{
		Models:    make(map[string]*Model),
		Visions:   make(map[string]*VisionModel),
		ListCalls: make(map[string]int),
	}
}

// Set registers m under its name and returns it.
func (f *Factory) Set(m *Model) *Model {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Models[m.ModelName] = m
	return m
}

// Get returns the model registered under name, creating the default one if needed.
func (f *Factory) Get(name string) *Model {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.model(name)
}

func (f *Factory) model(name string) *Model {
	m, ok := f.Models[name]
	if !ok {
		m = &Model{ModelName: name, Reply: "reply from " + name}
		f.Models[name] = m
	}
	return m
}

func (f *Factory) Gemini(_ context.Context, apiKey, model string) (llm.Model, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Keys = append(f.Keys, apiKey)
	return f.model(model), nil
}

func (f *Factory) Groq(apiKey string) (llm.Model, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Keys = append(f.Keys, apiKey)
	return f.model(GroqName), nil
}

func (f *Factory) ListModels(_ context.Context, apiKey string) ([]llm.ModelInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ListCalls[apiKey]++
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	return f.Listing, nil
}

func (f *Factory) Vision(_ context.Context, _ string, model string) (llm.VisionModel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.Visions[model]
	if !ok {
		v = &VisionModel{ModelName: model, Reply: "vision from " + model}
		f.Visions[model] = v
	}
	return v, nil
}

// Listing builds a model listing where every name supports generateContent.
func Listing(names ...string) []llm.ModelInfo {
	out := make([]llm.ModelInfo, 0, len(names))
	for _, n := range names {
		out = append(out, llm.ModelInfo{Name: "models/" + n, SupportedActions: []string{"generateContent", "countTokens"}})
	}
	return out
}

var _ llm.ModelFactory = (*Factory)(nil)
