package factory

import (
	"ai-shopping-agent-be/pkg/llm"
	"ai-shopping-agent-be/pkg/llm/gemini"
	"ai-shopping-agent-be/pkg/llm/ollama"
	"context"
	"fmt"
	"time"
)

const (
	ProviderGemini = "gemini"
	ProviderOllama = "ollama"
	ProviderNone   = "none"
)

type Settings struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
	Timeout  time.Duration
}

// NewLLMProvider builds the configured backend. ProviderNone (or an empty
// provider) returns nil, which callers treat as "no collaborator".
func NewLLMProvider(ctx context.Context, s Settings) (llm.LLMProvider, error) {
	switch s.Provider {
	case "", ProviderNone:
		return nil, nil
	case ProviderGemini:
		return gemini.NewProvider(ctx, s.APIKey, s.Model)
	case ProviderOllama:
		return ollama.NewProvider(s.BaseURL, s.Model, s.Timeout), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", s.Provider)
	}
}
