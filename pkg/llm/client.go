package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/andrew/llm-chat/pkg/models"
)

const (
	// ProviderOpenAI selects the hosted OpenAI chat completions API
	ProviderOpenAI = "openai"
	// ProviderOllama selects a local or remote Ollama server
	ProviderOllama = "ollama"
)

// ErrUnknownProvider is returned by NewClient for an unsupported provider name
var ErrUnknownProvider = errors.New("unknown provider")

// FragmentFunc receives each streamed piece of the reply, in arrival order.
// Returning an error aborts the stream.
type FragmentFunc func(fragment string) error

// Client is the interface for streaming chat completions
type Client interface {
	// Stream sends the request and calls fn for every text fragment until the
	// reply is complete. It returns once the stream is exhausted or fails.
	Stream(ctx context.Context, req Request, fn FragmentFunc) error
	Close() error
}

// Request is a single completion call
type Request struct {
	Model    string
	System   string
	Messages []models.Message
	Config   ModelConfig
}

// ModelConfig holds configuration parameters for model generation
type ModelConfig struct {
	Temperature float32
	TopP        float32
	MaxTokens   int
}

// DefaultModelConfig returns a default configuration
func DefaultModelConfig() ModelConfig {
	return ModelConfig{
		Temperature: 0.7,
		TopP:        1.0,
		MaxTokens:   2048,
	}
}

// ProviderConfig selects and configures a Client implementation
type ProviderConfig struct {
	Provider string
	APIKey   string
	BaseURL  string
}

// DefaultModel returns the model used when none is configured for a provider
func DefaultModel(provider string) string {
	if strings.EqualFold(provider, ProviderOllama) {
		return defaultOllamaModel
	}
	return defaultOpenAIModel
}

// NewClient creates a Client for the configured provider, defaulting to OpenAI
func NewClient(cfg ProviderConfig) (Client, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", ProviderOpenAI:
		return NewOpenAIClient(cfg.APIKey, cfg.BaseURL), nil
	case ProviderOllama:
		return NewOllamaClient(cfg.BaseURL)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
}
